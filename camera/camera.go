// Package camera provides a 2D follow camera for viewport control.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Camera controls the viewport into the world. It either follows a target
// with exponential smoothing or sits where it was panned to.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	// Smoothing is the follow rate; the camera closes 1-exp(-Smoothing·dt) of
	// the gap to its target per update. Zero snaps.
	Smoothing float32

	defaultZoom float32
}

// New creates a camera at the world origin.
func New(viewportW, viewportH, zoom, minZoom, maxZoom, smoothing float32) *Camera {
	if minZoom <= 0 {
		minZoom = 0.01
	}
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   minZoom,
		MaxZoom:   maxZoom,
		Smoothing: smoothing,
	}
	c.SetZoom(zoom)
	c.defaultZoom = c.Zoom
	return c
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// BoxVisible reports whether any part of b is on screen.
func (c *Camera) BoxVisible(b r2.Box) bool {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()
	return float32(b.Max.X) >= minX && float32(b.Min.X) <= maxX &&
		float32(b.Max.Y) >= minY && float32(b.Min.Y) <= maxY
}

// Follow moves the camera towards target over dt seconds.
func (c *Camera) Follow(target r2.Vec, dt float32) {
	tx, ty := float32(target.X), float32(target.Y)
	if c.Smoothing <= 0 || dt <= 0 {
		if c.Smoothing <= 0 {
			c.X, c.Y = tx, ty
		}
		return
	}
	k := 1 - float32(math.Exp(-float64(c.Smoothing*dt)))
	c.X += (tx - c.X) * k
	c.Y += (ty - c.Y) * k
}

// CenterOn snaps the camera to p.
func (c *Camera) CenterOn(p r2.Vec) {
	c.X, c.Y = float32(p.X), float32(p.Y)
}

// Fit centres on b and zooms so all of it is visible, within the zoom limits.
func (c *Camera) Fit(b r2.Box) {
	size := b.Size()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	c.CenterOn(b.Center())
	zx := c.ViewportW / float32(size.X)
	zy := c.ViewportH / float32(size.Y)
	c.SetZoom(min(zx, zy))
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset restores the initial zoom and centres on p.
func (c *Camera) Reset(p r2.Vec) {
	c.CenterOn(p)
	c.Zoom = c.defaultZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
