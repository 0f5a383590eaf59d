// Package viewport maps between screen pixels and a logical coordinate space
// using a pan offset and a uniform zoom factor.
package viewport

import (
	"math"

	"atlas-editor/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// Viewport holds the zoom factor and the pan offset (screen pixels).
//
//	screen = world*Zoom + Pan
type Viewport struct {
	Zoom float64
	Pan  r2.Vec
}

// New returns an identity viewport.
func New() Viewport {
	return Viewport{Zoom: 1}
}

// Reset restores zoom 1 and zero pan.
func (v *Viewport) Reset() {
	*v = New()
}

func clampZoom(z float64) float64 {
	return geometry.Clamp(z, MinZoom, MaxZoom)
}

// zoom returns a usable zoom even for a zero-value Viewport.
func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 || math.IsNaN(v.Zoom) {
		return 1
	}
	return v.Zoom
}

// ToWorld converts a screen point to world coordinates.
func (v Viewport) ToWorld(screen r2.Vec) r2.Vec {
	return r2.Scale(1/v.zoom(), r2.Sub(screen, v.Pan))
}

// ToScreen converts a world point to screen coordinates.
func (v Viewport) ToScreen(world r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(v.zoom(), world), v.Pan)
}

// ToScreenRect scales then translates a world rectangle.
func (v Viewport) ToScreenRect(r geometry.Rect) geometry.Rect {
	z := v.zoom()
	return geometry.Rect{
		X:      r.X*z + v.Pan.X,
		Y:      r.Y*z + v.Pan.Y,
		Width:  r.Width * z,
		Height: r.Height * z,
	}
}

// ToWorldRect is the inverse of ToScreenRect.
func (v Viewport) ToWorldRect(r geometry.Rect) geometry.Rect {
	z := v.zoom()
	return geometry.Rect{
		X:      (r.X - v.Pan.X) / z,
		Y:      (r.Y - v.Pan.Y) / z,
		Width:  r.Width / z,
		Height: r.Height / z,
	}
}

// ToWorldPoint is ToWorld for geometry points.
func (v Viewport) ToWorldPoint(screen r2.Vec) geometry.Point2D {
	w := v.ToWorld(screen)
	return geometry.Point2D{X: w.X, Y: w.Y}
}

// ZoomAt multiplies the zoom by factor around a screen point, keeping the
// world point under that screen point fixed. It reports whether anything
// changed and a redraw is needed.
func (v *Viewport) ZoomAt(screen r2.Vec, factor float64) bool {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return false
	}
	old := v.zoom()
	next := clampZoom(old * factor)
	if next == old && v.Zoom == old {
		return false
	}
	ratio := next / old
	v.Pan = r2.Sub(screen, r2.Scale(ratio, r2.Sub(screen, v.Pan)))
	v.Zoom = next
	return true
}

// SetZoom sets a clamped zoom without touching the pan.
func (v *Viewport) SetZoom(z float64) {
	v.Zoom = clampZoom(z)
}

// PanBy shifts the pan offset by a screen-space delta.
func (v *Viewport) PanBy(delta r2.Vec) {
	v.Pan = r2.Add(v.Pan, delta)
}

// Fit picks the largest zoom showing the whole content inside the view and
// centers it.
func (v *Viewport) Fit(contentW, contentH, viewW, viewH float64) {
	if contentW <= 0 || contentH <= 0 || viewW <= 0 || viewH <= 0 {
		return
	}
	z := clampZoom(math.Min(viewW/contentW, viewH/contentH))
	v.Zoom = z
	v.Pan = r2.Vec{X: (viewW - contentW*z) / 2, Y: (viewH - contentH*z) / 2}
}

// Scaled returns the viewport as seen on a surface with k device pixels per
// screen unit. Zoom is not clamped.
func (v Viewport) Scaled(k float64) Viewport {
	return Viewport{Zoom: v.zoom() * k, Pan: r2.Scale(k, v.Pan)}
}
