package arrange

import (
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"atlas-editor/internal/input"
	"atlas-editor/internal/prompt"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

var red = color.NRGBA{R: 255, A: 255}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func item(name string, x, y, w, h float64) Item {
	return Item{Name: name, Fragment: solid(int(w), int(h), red), Bounds: geometry.NewRect(x, y, w, h)}
}

// twoItems returns a at (100,100,50,50) and b at (300,200,50,50).
func twoItems() *Editor {
	var s Scene
	s.Add(item("a", 100, 100, 50, 50))
	s.Add(item("b", 300, 200, 50, 50))
	return NewEditor(s)
}

func dragBy(e *Editor, x0, y0, x1, y1 float64, mods ...input.Modifier) {
	e.Handle(input.PressAt(input.ButtonLeft, x0, y0, mods...))
	e.Handle(input.MoveTo(x1, y1))
	e.Handle(input.ReleaseAt(input.ButtonLeft, x1, y1))
}

func TestNewScene_SkipsOutsideRegions(t *testing.T) {
	src := solid(100, 100, red)
	s, skipped := NewScene(src, []region.Region{
		{Name: "in", Bounds: geometry.RectInt{X: 0, Y: 0, Width: 10, Height: 20}},
		{Name: "out", Bounds: geometry.RectInt{X: 95, Y: 95, Width: 10, Height: 10}},
	})

	assert.Equal(t, 1, skipped)
	require.Equal(t, 1, s.Len())
	it := s.Item(0)
	assert.Equal(t, "in", it.Name)
	assert.Equal(t, geometry.NewRect(0, 0, 10, 20), it.Bounds)
	assert.Equal(t, 0, it.Z)
	assert.Equal(t, 10, it.Fragment.Bounds().Dx())
}

func TestScene_OrderAndHit(t *testing.T) {
	var s Scene
	s.Add(item("first", 0, 0, 100, 100))
	s.Add(item("second", 50, 50, 100, 100))
	s.Add(item("third", 200, 200, 10, 10))

	p := geometry.Point2D{X: 75, Y: 75}
	assert.Equal(t, []int{0, 1, 2}, s.DrawOrder())
	assert.Equal(t, 1, s.HitTop(p), "ties go to the later item")

	s.SetZ(0, 3)
	assert.Equal(t, []int{1, 2, 0}, s.DrawOrder())
	assert.Equal(t, 0, s.HitTop(p))

	s.SetZ(2, -1)
	assert.Equal(t, []int{2, 1, 0}, s.DrawOrder())
	assert.Equal(t, -1, s.HitTop(geometry.Point2D{X: 500, Y: 500}))
	assert.Equal(t, 2, s.ByName("third"))
}

func TestSelect_ClickAndToggle(t *testing.T) {
	e := twoItems()

	dragBy(e, 120, 120, 120, 120)
	assert.Equal(t, []int{0}, e.State().Selected)

	dragBy(e, 320, 220, 320, 220, input.ModShift)
	assert.Equal(t, []int{0, 1}, e.State().Selected)

	dragBy(e, 120, 120, 120, 120, input.ModControl)
	assert.Equal(t, []int{1}, e.State().Selected)

	dragBy(e, 120, 120, 120, 120)
	assert.Equal(t, []int{0}, e.State().Selected)
}

func TestGroupDrag_IsRigidAndClamped(t *testing.T) {
	tests := []struct {
		name  string
		to    r2.Vec
		wantA geometry.Rect
		wantB geometry.Rect
	}{
		{"free", r2.Vec{X: 330, Y: 230}, geometry.NewRect(110, 110, 50, 50), geometry.NewRect(310, 210, 50, 50)},
		{"clamped bottom right", r2.Vec{X: 2320, Y: 2220}, geometry.NewRect(1030, 570, 50, 50), geometry.NewRect(1230, 670, 50, 50)},
		{"clamped top left", r2.Vec{X: -5000, Y: -5000}, geometry.NewRect(0, 0, 50, 50), geometry.NewRect(200, 100, 50, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := twoItems()
			e.Select(0, 1)
			dragBy(e, 320, 220, tt.to.X, tt.to.Y)

			s := e.Scene()
			assert.Equal(t, tt.wantA, s.Item(0).Bounds)
			assert.Equal(t, tt.wantB, s.Item(1).Bounds)
		})
	}
}

func TestGroupDrag_StaysInWorld(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	world := WorldRect()

	for round := 0; round < 200; round++ {
		var s Scene
		n := 1 + rng.IntN(4)
		for k := 0; k < n; k++ {
			w := 10 + rng.Float64()*200
			h := 10 + rng.Float64()*200
			s.Add(item("it", rng.Float64()*(WorldWidth-w), rng.Float64()*(WorldHeight-h), w, h))
		}
		e := NewEditor(s)
		all := make([]int, n)
		for k := range all {
			all[k] = k
		}
		e.Select(all...)

		grab := s.Item(0).Bounds
		x0, y0 := grab.X+1, grab.Y+1
		e.Handle(input.PressAt(input.ButtonLeft, x0, y0))
		for step := 0; step < 5; step++ {
			e.Handle(input.MoveTo(x0+(rng.Float64()-0.5)*6000, y0+(rng.Float64()-0.5)*4000))
		}
		e.Handle(input.ReleaseAt(input.ButtonLeft, 0, 0))

		moved := e.Scene()
		for k := 0; k < n; k++ {
			b := moved.Item(k).Bounds
			assert.GreaterOrEqual(t, b.X, world.X-1e-9)
			assert.GreaterOrEqual(t, b.Y, world.Y-1e-9)
			assert.LessOrEqual(t, b.Right(), world.Right()+1e-9)
			assert.LessOrEqual(t, b.Bottom(), world.Bottom()+1e-9)

			orig := s.Item(k).Bounds
			d0 := moved.Item(0).Bounds.X - s.Item(0).Bounds.X
			assert.InDelta(t, d0, b.X-orig.X, 1e-9, "group moved rigidly")
		}
	}
}

func TestUndo_RestoresGestureStart(t *testing.T) {
	e := twoItems()
	before := e.Scene().Snapshot()

	e.Handle(input.PressAt(input.ButtonLeft, 120, 120))
	e.Handle(input.MoveTo(140, 130))
	e.Handle(input.MoveTo(200, 180))
	e.Handle(input.MoveTo(260, 150))
	e.Handle(input.ReleaseAt(input.ButtonLeft, 260, 150))
	assert.Equal(t, 1, e.State().Undo.Len(), "one snapshot per gesture")
	assert.NotEqual(t, before, e.Scene().Snapshot())

	eff := e.Undo()
	assert.True(t, eff.Modified)
	assert.Equal(t, before, e.Scene().Snapshot())
	assert.Equal(t, 0, e.State().Undo.Len())
}

func TestUndo_ClickWithoutMoveRecordsNothing(t *testing.T) {
	e := twoItems()
	dragBy(e, 120, 120, 120, 120)
	assert.Equal(t, 0, e.State().Undo.Len())
}

func TestUndo_EmptyIsNoop(t *testing.T) {
	e := twoItems()
	before := e.Scene().Snapshot()

	eff := e.Undo()
	assert.False(t, eff.Modified)
	assert.Equal(t, "Nothing to undo", eff.Notice)
	assert.Equal(t, before, e.Scene().Snapshot())
}

func TestEditZ(t *testing.T) {
	tests := []struct {
		name     string
		resp     prompt.Response
		wantZ    int
		wantUndo int
	}{
		{"valid", prompt.Value("5"), 5, 1},
		{"negative", prompt.Value("-2"), -2, 1},
		{"not a number", prompt.Value("high"), 0, 0},
		{"cancelled", prompt.Cancel(), 0, 0},
		{"unchanged", prompt.Value("0"), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := twoItems()
			eff := e.Handle(input.DoubleClickAt(120, 120))
			require.NotNil(t, eff.Request)
			assert.Equal(t, prompt.KindInteger, eff.Request.Kind)
			assert.Equal(t, "0", eff.Request.Seed)
			assert.True(t, e.State().Awaiting())

			e.Resolve(tt.resp)
			assert.Equal(t, tt.wantZ, e.Scene().Item(0).Z)
			assert.Equal(t, tt.wantUndo, e.State().Undo.Len())
			assert.False(t, e.State().Awaiting())
		})
	}
}

func TestEditZ_ResortsAndUndoes(t *testing.T) {
	var s Scene
	s.Add(item("low", 0, 0, 100, 100))
	s.Add(item("high", 50, 50, 100, 100))
	e := NewEditor(s)
	port := prompt.PortFunc(func(prompt.Request) prompt.Response { return prompt.Value("9") })

	eff := e.HandleWith(input.DoubleClickAt(20, 20), port)
	assert.True(t, eff.Modified)
	assert.Equal(t, 0, e.Scene().HitTop(geometry.Point2D{X: 75, Y: 75}))

	e.Undo()
	assert.Equal(t, 1, e.Scene().HitTop(geometry.Point2D{X: 75, Y: 75}))
	assert.Equal(t, 0, e.Scene().Item(0).Z)
}

func TestBandSelect(t *testing.T) {
	e := twoItems()

	dragBy(e, 500, 500, 90, 90)
	assert.Equal(t, []int{0, 1}, e.State().Selected)
	assert.Equal(t, Idle, e.State().Mode)
	assert.Equal(t, geometry.Rect{}, e.State().Band)

	dragBy(e, 90, 90, 160, 160)
	assert.Equal(t, []int{0}, e.State().Selected)

	dragBy(e, 290, 190, 400, 400, input.ModShift)
	assert.Equal(t, []int{0, 1}, e.State().Selected, "modifier adds to the selection")

	dragBy(e, 600, 600, 700, 700)
	assert.Empty(t, e.State().Selected)
}

func TestBandSelect_UsesWorldCoordinates(t *testing.T) {
	e := twoItems()
	e.View().SetZoom(0.5)

	// Screen (40,40)-(80,80) is world (80,80)-(160,160).
	dragBy(e, 40, 40, 80, 80)
	assert.Equal(t, []int{0}, e.State().Selected)
}

func TestStep_CopyOnWrite(t *testing.T) {
	e := twoItems()
	e.Select(0)
	before := e.State()

	dragBy(e, 120, 120, 170, 170)

	assert.Equal(t, geometry.NewRect(100, 100, 50, 50), before.Scene.Item(0).Bounds)
	assert.Equal(t, 0, before.Undo.Len())
	assert.Equal(t, geometry.NewRect(150, 150, 50, 50), e.Scene().Item(0).Bounds)
}

func TestLog_PushDoesNotAlias(t *testing.T) {
	base := Log{}.Push(Snapshot{{Name: "a"}})
	left := base.Push(Snapshot{{Name: "b"}})
	right := base.Push(Snapshot{{Name: "c"}})

	_, top, ok := left.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", top[0].Name)
	_, top, _ = right.Pop()
	assert.Equal(t, "c", top[0].Name)
	assert.Equal(t, 1, base.Len())
}

func TestRender_ThroughViewport(t *testing.T) {
	var s Scene
	s.Add(item("icon", 0, 0, 50, 50))
	e := NewEditor(s)
	e.View().SetZoom(2)
	e.View().Pan = r2.Vec{X: 10, Y: 10}

	dst := image.NewRGBA(image.Rect(0, 0, 200, 200))
	Render(dst, e.Scene(), e.State().View)

	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(10, 10))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(109, 109))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(111, 111))
}

func TestCompose_WorldSize(t *testing.T) {
	var s Scene
	s.Add(item("icon", 1270, 710, 10, 10))
	out := Compose(s)

	assert.Equal(t, image.Rect(0, 0, WorldWidth, WorldHeight), out.Bounds())
	assert.Equal(t, color.RGBA{R: 255, A: 255}, out.RGBAAt(1275, 715))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0))
}
