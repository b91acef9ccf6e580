package renderer

import (
	_ "embed"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/driftloop/camera"
)

//go:embed shaders/grass.fs
var grassShader string

// grassUniforms are the shader locations set each frame.
type grassUniforms struct {
	resolution, cameraPos, cameraZoom, baseColor int32
}

// BackgroundRenderer fills the screen with grass that scrolls with the camera.
// The shader is compiled on first use, so it needs a window by then.
type BackgroundRenderer struct {
	shader   rl.Shader
	uniforms grassUniforms
	loaded   bool

	size rl.Vector2
	base [3]float32
}

func NewBackgroundRenderer(screenW, screenH int32, base color.RGBA) *BackgroundRenderer {
	return &BackgroundRenderer{
		size: rl.Vector2{X: float32(screenW), Y: float32(screenH)},
		base: shaderColor(base),
	}
}

// shaderColor converts c to a normalised vec3, dropping alpha.
func shaderColor(c color.RGBA) [3]float32 {
	return [3]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func (b *BackgroundRenderer) load() {
	b.shader = rl.LoadShaderFromMemory("", grassShader)
	b.uniforms = grassUniforms{
		resolution: rl.GetShaderLocation(b.shader, "resolution"),
		cameraPos:  rl.GetShaderLocation(b.shader, "cameraPos"),
		cameraZoom: rl.GetShaderLocation(b.shader, "cameraZoom"),
		baseColor:  rl.GetShaderLocation(b.shader, "baseColor"),
	}
	rl.SetShaderValue(b.shader, b.uniforms.baseColor, b.base[:], rl.ShaderUniformVec3)
	b.loaded = true
}

// Resize sets the screen size covered by Draw.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.size = rl.Vector2{X: float32(screenW), Y: float32(screenH)}
}

// Draw covers the screen. Call it before BeginMode2D.
func (b *BackgroundRenderer) Draw(cam *camera.Camera) {
	if !b.loaded {
		b.load()
	}
	u := b.uniforms
	rl.BeginShaderMode(b.shader)
	rl.SetShaderValue(b.shader, u.resolution, []float32{b.size.X, b.size.Y}, rl.ShaderUniformVec2)
	rl.SetShaderValue(b.shader, u.cameraPos, []float32{cam.X, cam.Y}, rl.ShaderUniformVec2)
	rl.SetShaderValue(b.shader, u.cameraZoom, []float32{cam.Zoom}, rl.ShaderUniformFloat)
	rl.DrawRectangleV(rl.Vector2{}, b.size, rl.White)
	rl.EndShaderMode()
}

func (b *BackgroundRenderer) Unload() {
	if !b.loaded {
		return
	}
	rl.UnloadShader(b.shader)
	b.loaded = false
}
