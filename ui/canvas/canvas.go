// Package canvas provides the raster view widget that feeds pointer and
// wheel input to an editor and paints its state.
package canvas

import (
	"image"

	"atlas-editor/internal/hittest"
	"atlas-editor/internal/input"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"gonum.org/v1/gonum/spatial/r2"
)

// PaintFunc renders the view into dst. scale is the number of device pixels
// per screen unit.
type PaintFunc func(dst *image.RGBA, scale float64)

// View displays a painted raster and translates Fyne input into
// input.Events. Positions are in screen units relative to the view.
type View struct {
	widget.BaseWidget

	raster *fynecanvas.Raster
	cursor desktop.Cursor

	// held is the button pressed on this view, if any
	held input.Button
	last r2.Vec

	OnEvent func(ev input.Event)
	Paint   PaintFunc
}

var (
	_ desktop.Mouseable   = (*View)(nil)
	_ desktop.Hoverable   = (*View)(nil)
	_ desktop.Cursorable  = (*View)(nil)
	_ fyne.Draggable      = (*View)(nil)
	_ fyne.Scrollable     = (*View)(nil)
	_ fyne.DoubleTappable = (*View)(nil)
)

// NewView creates an empty view.
func NewView() *View {
	v := &View{cursor: desktop.DefaultCursor}
	v.raster = fynecanvas.NewRaster(v.draw)
	v.raster.ScaleMode = fynecanvas.ImageScalePixels
	v.raster.SetMinSize(fyne.NewSize(320, 240))
	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget.
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// Refresh repaints the raster.
func (v *View) Refresh() {
	v.raster.Refresh()
}

// SetCursor changes the pointer shape shown over the view.
func (v *View) SetCursor(c desktop.Cursor) {
	v.cursor = c
}

// SetZoneCursor shows the pointer shape for a hit-test zone.
func (v *View) SetZoneCursor(z hittest.Zone) {
	v.cursor = CursorFor(z)
}

// Cursor implements desktop.Cursorable.
func (v *View) Cursor() desktop.Cursor {
	return v.cursor
}

func (v *View) draw(w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if v.Paint == nil {
		return dst
	}
	scale := 1.0
	if size := v.Size(); size.Width > 0 {
		scale = float64(w) / float64(size.Width)
	}
	v.Paint(dst, scale)
	return dst
}

func (v *View) emit(ev input.Event) {
	v.last = ev.Pos
	if v.OnEvent != nil {
		v.OnEvent(ev)
	}
}

func toVec(p fyne.Position) r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// MouseDown implements desktop.Mouseable.
func (v *View) MouseDown(ev *desktop.MouseEvent) {
	b := MouseButton(ev.Button)
	if b == input.ButtonNone || v.held != input.ButtonNone {
		return
	}
	v.held = b
	v.emit(input.Event{Kind: input.Press, Button: b, Pos: toVec(ev.Position), Mods: Modifiers(ev.Modifier)})
}

// MouseUp implements desktop.Mouseable.
func (v *View) MouseUp(ev *desktop.MouseEvent) {
	b := MouseButton(ev.Button)
	if b == input.ButtonNone || b != v.held {
		return
	}
	v.held = input.ButtonNone
	v.emit(input.Event{Kind: input.Release, Button: b, Pos: toVec(ev.Position)})
}

// MouseIn implements desktop.Hoverable.
func (v *View) MouseIn(ev *desktop.MouseEvent) {
	v.emit(input.Event{Kind: input.Move, Pos: toVec(ev.Position)})
}

// MouseMoved implements desktop.Hoverable.
func (v *View) MouseMoved(ev *desktop.MouseEvent) {
	v.emit(input.Event{Kind: input.Move, Pos: toVec(ev.Position)})
}

// MouseOut implements desktop.Hoverable.
func (v *View) MouseOut() {}

// Dragged implements fyne.Draggable. Fyne routes primary-button motion here
// rather than to MouseMoved.
func (v *View) Dragged(ev *fyne.DragEvent) {
	v.emit(input.Event{Kind: input.Move, Pos: toVec(ev.Position)})
}

// DragEnd implements fyne.Draggable. A drag released outside the view gets
// no MouseUp, so the release is synthesized at the last known position.
func (v *View) DragEnd() {
	if v.held == input.ButtonNone {
		return
	}
	b := v.held
	v.held = input.ButtonNone
	v.emit(input.Event{Kind: input.Release, Button: b, Pos: v.last})
}

// Scrolled implements fyne.Scrollable.
func (v *View) Scrolled(ev *fyne.ScrollEvent) {
	v.emit(input.Event{Kind: input.Scroll, Pos: toVec(ev.Position), ScrollDY: float64(ev.Scrolled.DY)})
}

// DoubleTapped implements fyne.DoubleTappable.
func (v *View) DoubleTapped(ev *fyne.PointEvent) {
	v.emit(input.Event{Kind: input.DoubleClick, Button: input.ButtonLeft, Pos: toVec(ev.Position)})
}

// MouseButton maps a Fyne mouse button to an input button.
func MouseButton(b desktop.MouseButton) input.Button {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return input.ButtonLeft
	case b&desktop.MouseButtonSecondary != 0:
		return input.ButtonRight
	case b&desktop.MouseButtonTertiary != 0:
		return input.ButtonMiddle
	}
	return input.ButtonNone
}

// Modifiers maps Fyne key modifiers to input modifiers.
func Modifiers(m fyne.KeyModifier) input.Modifier {
	var out input.Modifier
	if m&fyne.KeyModifierShift != 0 {
		out |= input.ModShift
	}
	if m&fyne.KeyModifierControl != 0 {
		out |= input.ModControl
	}
	if m&fyne.KeyModifierAlt != 0 {
		out |= input.ModAlt
	}
	if m&fyne.KeyModifierSuper != 0 {
		out |= input.ModSuper
	}
	return out
}

// Key maps a typed key to an editing key.
func Key(name fyne.KeyName) input.Key {
	switch name {
	case fyne.KeyDelete, fyne.KeyBackspace:
		return input.KeyDelete
	case fyne.KeyEscape:
		return input.KeyEscape
	}
	return input.KeyNone
}

// CursorFor returns the pointer shape for a hit-test zone. Fyne has no
// diagonal resize cursors, so corners use the crosshair.
func CursorFor(z hittest.Zone) desktop.Cursor {
	switch z {
	case hittest.Move:
		return desktop.PointerCursor
	case hittest.LeftEdge, hittest.RightEdge:
		return desktop.HResizeCursor
	case hittest.TopEdge, hittest.BottomEdge:
		return desktop.VResizeCursor
	case hittest.TopLeft, hittest.TopRight, hittest.BottomLeft, hittest.BottomRight:
		return desktop.CrosshairCursor
	}
	return desktop.DefaultCursor
}
