package canvas

import (
	"image"
	"image/color"
	"testing"

	"atlas-editor/internal/arrange"
	"atlas-editor/internal/hittest"
	"atlas-editor/internal/input"
	"atlas-editor/internal/region"
	"atlas-editor/internal/viewport"
	"atlas-editor/pkg/colorutil"
	"atlas-editor/pkg/geometry"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMouseButton(t *testing.T) {
	assert.Equal(t, input.ButtonLeft, MouseButton(desktop.MouseButtonPrimary))
	assert.Equal(t, input.ButtonRight, MouseButton(desktop.MouseButtonSecondary))
	assert.Equal(t, input.ButtonMiddle, MouseButton(desktop.MouseButtonTertiary))
	assert.Equal(t, input.ButtonNone, MouseButton(0))
}

func TestModifiers(t *testing.T) {
	m := Modifiers(fyne.KeyModifierShift | fyne.KeyModifierSuper)
	assert.Equal(t, input.ModShift|input.ModSuper, m)
	assert.True(t, m.Toggle())
	assert.False(t, Modifiers(fyne.KeyModifierAlt).Toggle())
}

func TestKey(t *testing.T) {
	assert.Equal(t, input.KeyDelete, Key(fyne.KeyDelete))
	assert.Equal(t, input.KeyDelete, Key(fyne.KeyBackspace))
	assert.Equal(t, input.KeyEscape, Key(fyne.KeyEscape))
	assert.Equal(t, input.KeyNone, Key(fyne.KeyA))
}

func TestCursorFor(t *testing.T) {
	tests := []struct {
		zone hittest.Zone
		want desktop.Cursor
	}{
		{hittest.None, desktop.DefaultCursor},
		{hittest.Move, desktop.PointerCursor},
		{hittest.LeftEdge, desktop.HResizeCursor},
		{hittest.BottomEdge, desktop.VResizeCursor},
		{hittest.TopRight, desktop.CrosshairCursor},
	}
	for _, tt := range tests {
		t.Run(tt.zone.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, CursorFor(tt.zone))
		})
	}
}

func recordView(t *testing.T) (*View, *[]input.Event) {
	t.Helper()
	test.NewApp()
	v := NewView()
	var got []input.Event
	v.OnEvent = func(ev input.Event) { got = append(got, ev) }
	return v, &got
}

func mouse(x, y float32, b desktop.MouseButton, mods fyne.KeyModifier) *desktop.MouseEvent {
	ev := &desktop.MouseEvent{Button: b, Modifier: mods}
	ev.Position = fyne.NewPos(x, y)
	return ev
}

func TestView_PressDragRelease(t *testing.T) {
	v, got := recordView(t)

	v.MouseDown(mouse(10, 20, desktop.MouseButtonPrimary, fyne.KeyModifierShift))
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 40)}})
	v.MouseUp(mouse(30, 40, desktop.MouseButtonPrimary, 0))
	v.DragEnd()

	require.Len(t, *got, 3)
	assert.Equal(t, input.PressAt(input.ButtonLeft, 10, 20, input.ModShift), (*got)[0])
	assert.Equal(t, input.MoveTo(30, 40), (*got)[1])
	assert.Equal(t, input.ReleaseAt(input.ButtonLeft, 30, 40), (*got)[2])
}

func TestView_DragEndSynthesizesRelease(t *testing.T) {
	v, got := recordView(t)

	v.MouseDown(mouse(5, 5, desktop.MouseButtonPrimary, 0))
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(-20, 50)}})
	v.DragEnd()

	require.Len(t, *got, 3)
	assert.Equal(t, input.ReleaseAt(input.ButtonLeft, -20, 50), (*got)[2])
}

func TestView_SecondButtonIgnoredWhileHeld(t *testing.T) {
	v, got := recordView(t)

	v.MouseDown(mouse(5, 5, desktop.MouseButtonSecondary, 0))
	v.MouseDown(mouse(5, 5, desktop.MouseButtonPrimary, 0))
	v.MouseUp(mouse(6, 6, desktop.MouseButtonPrimary, 0))
	v.MouseUp(mouse(7, 7, desktop.MouseButtonSecondary, 0))

	require.Len(t, *got, 2)
	assert.Equal(t, input.Press, (*got)[0].Kind)
	assert.Equal(t, input.ButtonRight, (*got)[0].Button)
	assert.Equal(t, input.ReleaseAt(input.ButtonRight, 7, 7), (*got)[1])
}

func TestView_ScrollAndDoubleTap(t *testing.T) {
	v, got := recordView(t)

	v.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(3, 4)}, Scrolled: fyne.NewDelta(0, -10)})
	v.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(8, 9)})

	require.Len(t, *got, 2)
	assert.Equal(t, input.ScrollAt(3, 4, -10), (*got)[0])
	assert.Equal(t, input.DoubleClickAt(8, 9), (*got)[1])
}

func TestView_ZoneCursor(t *testing.T) {
	v, _ := recordView(t)
	assert.Equal(t, desktop.DefaultCursor, v.Cursor())
	v.SetZoneCursor(hittest.RightEdge)
	assert.Equal(t, desktop.HResizeCursor, v.Cursor())
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var red = color.RGBA{R: 200, A: 255}

func TestPaintRegions(t *testing.T) {
	st := region.NewState(100, 100, []region.Region{
		{Name: "a", Bounds: geometry.RectInt{X: 10, Y: 10, Width: 50, Height: 50}},
		{Name: "b", Bounds: geometry.RectInt{X: 70, Y: 70, Width: 20, Height: 20}},
	})
	st.Selected = 0

	dst := image.NewRGBA(image.Rect(0, 0, 150, 150))
	PaintRegions(dst, solid(100, 100, red), st, viewport.New())

	assert.Equal(t, colorutil.Yellow, dst.RGBAAt(25, 11), "selected outline")
	assert.Equal(t, colorutil.Cyan, dst.RGBAAt(80, 70), "region outline")
	assert.Equal(t, red, dst.RGBAAt(80, 80), "image inside region")
	assert.Equal(t, colorutil.Backdrop, dst.RGBAAt(120, 120), "outside the image")
}

func TestPaintRegions_NoImage(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	PaintRegions(dst, nil, region.NewState(0, 0, nil), viewport.New())
	assert.Equal(t, colorutil.Backdrop, dst.RGBAAt(10, 10))
}

func TestPaintArrangement(t *testing.T) {
	scene, skipped := arrange.NewScene(solid(20, 20, red), []region.Region{
		{Name: "a", Bounds: geometry.RectInt{Width: 20, Height: 20}},
	})
	require.Zero(t, skipped)
	scene.SetBounds(0, geometry.NewRect(100, 100, 20, 20))
	st := arrange.NewState(scene)
	st.Selected = []int{0}

	vp := viewport.Viewport{Zoom: 0.5}
	dst := image.NewRGBA(image.Rect(0, 0, 700, 400))
	PaintArrangement(dst, st, vp)

	assert.Equal(t, red, dst.RGBAAt(55, 55), "fragment at half size")
	assert.Equal(t, colorutil.Yellow, dst.RGBAAt(55, 50), "selection outline")
	assert.Equal(t, colorutil.WorldFill, dst.RGBAAt(300, 300))
	assert.Equal(t, colorutil.WorldFrame, dst.RGBAAt(640, 100))
	assert.Equal(t, colorutil.Backdrop, dst.RGBAAt(680, 380))
}

func TestPaintArrangement_Band(t *testing.T) {
	st := arrange.NewState(arrange.Scene{})
	st.Mode = arrange.BandSelecting
	st.Band = geometry.NewRect(10, 10, 40, 40)

	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	PaintArrangement(dst, st, viewport.New().Scaled(1))
	assert.Equal(t, colorutil.Magenta, dst.RGBAAt(16, 10))
}

func TestDrawText(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 10))
	DrawText(dst, "1", 0, 0, colorutil.White, 1)
	// "1" is 010/110/010/010/111
	assert.Equal(t, colorutil.White, dst.RGBAAt(1, 0))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(0, 0))
	assert.Equal(t, image.Pt(11, 5), TextSize("abc", 1))
	assert.Equal(t, image.Point{}, TextSize("", 2))
}

func TestStrokeRect(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	StrokeRect(dst, image.Rect(2, 2, 8, 8), colorutil.Green, 1)
	assert.Equal(t, colorutil.Green, dst.RGBAAt(2, 2))
	assert.Equal(t, colorutil.Green, dst.RGBAAt(7, 5))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(8, 8))
}

