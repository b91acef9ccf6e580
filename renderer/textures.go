// Package renderer draws the track, cars and background with raylib.
package renderer

import (
	"fmt"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/track"
)

// TileTextures holds one loaded image per tile kind. It implements
// track.Textures so the builder scales tiles to the real images.
type TileTextures struct {
	tex [track.NumTileKinds]rl.Texture2D
}

// LoadTileTextures loads "<kind>.png" for every tile kind from dir, e.g.
// dir/top_left.png. It needs a window. On error nothing stays loaded.
func LoadTileTextures(dir string) (*TileTextures, error) {
	t := &TileTextures{}
	for k := track.TileKind(0); k < track.NumTileKinds; k++ {
		path := filepath.Join(dir, k.String()+".png")
		if _, err := os.Stat(path); err != nil {
			t.Unload()
			return nil, fmt.Errorf("tile texture %s: %w", k, err)
		}
		tex := rl.LoadTexture(path)
		if !rl.IsTextureValid(tex) || tex.Width <= 0 {
			t.Unload()
			return nil, fmt.Errorf("tile texture %s: failed to load %s", k, path)
		}
		t.tex[k] = tex
	}
	return t, nil
}

// Size implements track.Textures.
func (t *TileTextures) Size(kind track.TileKind) (int, int) {
	tex := t.tex[kind]
	return int(tex.Width), int(tex.Height)
}

// Texture returns the image for kind.
func (t *TileTextures) Texture(kind track.TileKind) rl.Texture2D {
	return t.tex[kind]
}

// Unload frees every loaded texture.
func (t *TileTextures) Unload() {
	if t == nil {
		return
	}
	for k := range t.tex {
		if t.tex[k].ID != 0 {
			rl.UnloadTexture(t.tex[k])
			t.tex[k] = rl.Texture2D{}
		}
	}
}
