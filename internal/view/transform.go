// Package view maps between screen pixels and world coordinates.
package view

import (
	"math"

	"RoomBoard/internal/state"
)

const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 10.0

	// zoomStep is the zoom factor for one wheel notch.
	zoomStep = 1.1
	// wheelNotch is the wheel delta reported for one notch.
	wheelNotch = 100.0
)

// Transform is a pan offset in screen pixels plus a zoom factor:
// screen = world*Zoom + Offset.
type Transform struct {
	OffsetX float64
	OffsetY float64
	Zoom    float64

	minZoom float64
	maxZoom float64
}

// New returns an identity transform with zoom bounded to [minZoom, maxZoom].
// Invalid bounds fall back to the defaults.
func New(minZoom, maxZoom float64) Transform {
	if minZoom <= 0 || maxZoom < minZoom || math.IsNaN(minZoom) || math.IsNaN(maxZoom) {
		minZoom, maxZoom = DefaultMinZoom, DefaultMaxZoom
	}
	t := Transform{Zoom: 1, minZoom: minZoom, maxZoom: maxZoom}
	t.Zoom = t.clamp(1)
	return t
}

func (t Transform) Bounds() (minZoom, maxZoom float64) {
	return t.minZoom, t.maxZoom
}

func (t Transform) ScreenToWorld(x, y float64) state.Point {
	return state.Point{X: (x - t.OffsetX) / t.Zoom, Y: (y - t.OffsetY) / t.Zoom}
}

func (t Transform) WorldToScreen(p state.Point) (x, y float64) {
	return p.X*t.Zoom + t.OffsetX, p.Y*t.Zoom + t.OffsetY
}

// BoxToScreen maps a world box to screen pixels.
func (t Transform) BoxToScreen(b state.BoundingBox) state.BoundingBox {
	x, y := t.WorldToScreen(state.Point{X: b.X, Y: b.Y})
	return state.BoundingBox{X: x, Y: y, Width: b.Width * t.Zoom, Height: b.Height * t.Zoom}
}

// Pan shifts the offset by a raw screen delta; zoom does not scale it.
func (t *Transform) Pan(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// SetZoom sets the zoom, clamped, keeping the screen point (x, y) fixed
// over the same world point.
func (t *Transform) SetZoom(zoom, x, y float64) {
	anchor := t.ScreenToWorld(x, y)
	t.Zoom = t.clamp(zoom)
	t.OffsetX = x - anchor.X*t.Zoom
	t.OffsetY = y - anchor.Y*t.Zoom
}

// ZoomBy multiplies the zoom by factor around the screen point (x, y).
func (t *Transform) ZoomBy(factor, x, y float64) {
	if factor < 0 || math.IsNaN(factor) {
		return
	}
	t.SetZoom(t.Zoom*factor, x, y)
}

// Wheel applies a wheel delta at the screen point (x, y). Positive deltas
// zoom out.
func (t *Transform) Wheel(deltaY, x, y float64) {
	if deltaY == 0 || math.IsNaN(deltaY) {
		return
	}
	t.ZoomBy(math.Pow(zoomStep, -deltaY/wheelNotch), x, y)
}

// Reset returns to zoom 1 with no offset.
func (t *Transform) Reset() {
	t.OffsetX, t.OffsetY = 0, 0
	t.Zoom = t.clamp(1)
}

func (t Transform) clamp(z float64) float64 {
	if math.IsNaN(z) {
		return t.Zoom
	}
	return math.Max(t.minZoom, math.Min(t.maxZoom, z))
}
