package arrange

import (
	"fmt"
	"slices"
	"strconv"

	"atlas-editor/internal/input"
	"atlas-editor/internal/prompt"
	"atlas-editor/internal/viewport"
	"atlas-editor/pkg/geometry"

	"gonum.org/v1/gonum/spatial/r2"
)

// Mode is the left-button gesture currently in progress.
type Mode int

const (
	Idle Mode = iota
	Dragging
	BandSelecting
)

func (m Mode) String() string {
	switch m {
	case Dragging:
		return "Dragging"
	case BandSelecting:
		return "BandSelecting"
	default:
		return "Idle"
	}
}

// Effect tells the host what a transition did.
type Effect struct {
	Redraw   bool
	Modified bool
	Request  *prompt.Request
	Notice   string
}

func (e Effect) merge(next Effect) Effect {
	e.Redraw = e.Redraw || next.Redraw
	e.Modified = e.Modified || next.Modified
	e.Request = next.Request
	if next.Notice != "" {
		e.Notice = next.Notice
	}
	return e
}

// State is the complete state of one arrangement view, passed by value.
// Transitions clone the scene, selection and undo log before changing them.
type State struct {
	Scene    Scene
	Selected []int // sorted item indices
	Mode     Mode
	Panning  bool
	View     viewport.Viewport
	Undo     Log

	// Band is the rubber band in world units while BandSelecting.
	Band geometry.Rect

	press     geometry.Point2D
	origins   []geometry.Rect
	union     geometry.Rect
	recorded  bool
	bandBase  []int
	panLast   r2.Vec
	editIndex int
	editing   bool
}

// NewState returns an idle state over scene.
func NewState(scene Scene) State {
	return State{Scene: scene, View: viewport.New()}
}

// IsSelected reports whether item i is selected.
func (s State) IsSelected(i int) bool {
	_, found := slices.BinarySearch(s.Selected, i)
	return found
}

// Awaiting reports whether a Z request is outstanding.
func (s State) Awaiting() bool {
	return s.editing
}

// Step applies one input event.
func Step(s State, ev input.Event) (State, Effect) {
	if s.editing {
		return s, Effect{}
	}
	switch ev.Kind {
	case input.Press:
		switch ev.Button {
		case input.ButtonLeft:
			if s.Panning {
				return s, Effect{}
			}
			return s.pressLeft(ev)
		case input.ButtonRight:
			if s.Mode != Idle {
				return s, Effect{}
			}
			s.Panning = true
			s.panLast = ev.Pos
			return s, Effect{}
		}
	case input.Move:
		if s.Panning {
			s.View.PanBy(r2.Sub(ev.Pos, s.panLast))
			s.panLast = ev.Pos
			return s, Effect{Redraw: true}
		}
		switch s.Mode {
		case Dragging:
			return s.drag(s.View.ToWorldPoint(ev.Pos))
		case BandSelecting:
			return s.band(s.View.ToWorldPoint(ev.Pos)), Effect{Redraw: true}
		}
	case input.Release:
		switch ev.Button {
		case input.ButtonLeft:
			return s.releaseLeft(ev)
		case input.ButtonRight:
			s.Panning = false
			return s, Effect{}
		}
	case input.Scroll:
		factor := viewport.ZoomStep
		switch {
		case ev.ScrollDY < 0:
			factor = 1 / viewport.ZoomStep
		case ev.ScrollDY == 0:
			return s, Effect{}
		}
		return s, Effect{Redraw: s.View.ZoomAt(ev.Pos, factor)}
	case input.DoubleClick:
		return s.doubleClick(ev)
	case input.KeyDown:
		switch ev.Key {
		case input.KeyUndo:
			if s.Mode != Idle {
				return s, Effect{}
			}
			return Undo(s)
		case input.KeyEscape:
			if s.Mode == Idle && len(s.Selected) > 0 {
				s.Selected = nil
				return s, Effect{Redraw: true}
			}
		}
	}
	return s, Effect{}
}

// Resolve answers an outstanding Z request. Cancelled or non-integer input
// leaves Z unchanged.
func Resolve(s State, resp prompt.Response) (State, Effect) {
	if !s.editing {
		return s, Effect{}
	}
	s.editing = false
	i := s.editIndex
	z, ok := prompt.ParseInt(resp)
	if !ok || i >= s.Scene.Len() || s.Scene.Item(i).Z == z {
		return s, Effect{}
	}
	s.Undo = s.Undo.Push(s.Scene.Snapshot())
	s.Scene = s.Scene.Clone()
	s.Scene.SetZ(i, z)
	return s, Effect{Redraw: true, Modified: true}
}

// Undo restores the most recent snapshot. With nothing recorded it changes
// nothing and reports a notice.
func Undo(s State) (State, Effect) {
	rest, snap, ok := s.Undo.Pop()
	if !ok {
		return s, Effect{Notice: "Nothing to undo"}
	}
	s.Undo = rest
	s.Scene = s.Scene.Clone()
	s.Scene.Restore(snap)
	return s, Effect{Redraw: true, Modified: true}
}

func (s State) pressLeft(ev input.Event) (State, Effect) {
	p := s.View.ToWorldPoint(ev.Pos)
	toggle := ev.Mods.Toggle()

	i := s.Scene.HitTop(p)
	if i < 0 {
		s.Mode = BandSelecting
		s.press = p
		s.bandBase = nil
		if toggle {
			s.bandBase = s.Selected
		}
		s.Band = geometry.Rect{X: p.X, Y: p.Y}
		s.Selected = slices.Clone(s.bandBase)
		return s, Effect{Redraw: true}
	}

	switch {
	case toggle && s.IsSelected(i):
		s.Selected = slices.DeleteFunc(slices.Clone(s.Selected), func(j int) bool { return j == i })
		return s, Effect{Redraw: true}
	case toggle:
		s.Selected = insertSorted(s.Selected, i)
	case !s.IsSelected(i):
		s.Selected = []int{i}
	}
	return s.beginDrag(p), Effect{Redraw: true}
}

func (s State) beginDrag(p geometry.Point2D) State {
	s.Mode = Dragging
	s.press = p
	s.recorded = false
	s.origins = make([]geometry.Rect, len(s.Selected))
	for k, i := range s.Selected {
		s.origins[k] = s.Scene.Item(i).Bounds
	}
	s.union = geometry.UnionAll(s.origins)
	return s
}

// drag moves every selected item by the same delta, clamped once so the
// union of their press-time bounds stays inside the world.
func (s State) drag(p geometry.Point2D) (State, Effect) {
	d := p.Sub(s.press)
	world := WorldRect()
	dx := clampDelta(d.X, world.X-s.union.X, world.Right()-s.union.Right())
	dy := clampDelta(d.Y, world.Y-s.union.Y, world.Bottom()-s.union.Bottom())

	changed := false
	for k, i := range s.Selected {
		if s.Scene.Item(i).Bounds != s.origins[k].Translate(dx, dy) {
			changed = true
			break
		}
	}
	if !changed {
		return s, Effect{}
	}

	if !s.recorded {
		s.Undo = s.Undo.Push(s.Scene.Snapshot())
		s.recorded = true
	}
	s.Scene = s.Scene.Clone()
	for k, i := range s.Selected {
		s.Scene.SetBounds(i, s.origins[k].Translate(dx, dy))
	}
	return s, Effect{Redraw: true, Modified: true}
}

func (s State) band(p geometry.Point2D) State {
	s.Band = geometry.RectFromPoints(s.press, p)
	sel := slices.Clone(s.bandBase)
	for _, i := range s.Scene.Intersecting(s.Band) {
		sel = insertSorted(sel, i)
	}
	s.Selected = sel
	return s
}

func (s State) releaseLeft(ev input.Event) (State, Effect) {
	switch s.Mode {
	case Dragging:
		s.Mode = Idle
		s.recorded = false
		s.origins = nil
		return s, Effect{Redraw: true}
	case BandSelecting:
		s = s.band(s.View.ToWorldPoint(ev.Pos))
		s.Mode = Idle
		s.Band = geometry.Rect{}
		s.bandBase = nil
		return s, Effect{Redraw: true}
	}
	return s, Effect{}
}

func (s State) doubleClick(ev input.Event) (State, Effect) {
	if s.Mode != Idle || s.Panning {
		return s, Effect{}
	}
	i := s.Scene.HitTop(s.View.ToWorldPoint(ev.Pos))
	if i < 0 {
		return s, Effect{}
	}
	it := s.Scene.Item(i)
	s.Selected = []int{i}
	s.editing = true
	s.editIndex = i
	return s, Effect{Redraw: true, Request: &prompt.Request{
		Kind:    prompt.KindInteger,
		Title:   "Edit Z",
		Message: fmt.Sprintf("Stacking order for %s", it.Name),
		Seed:    strconv.Itoa(it.Z),
	}}
}

// insertSorted returns a copy of sorted with v added once.
func insertSorted(sorted []int, v int) []int {
	pos, found := slices.BinarySearch(sorted, v)
	if found {
		return slices.Clone(sorted)
	}
	return slices.Insert(slices.Clone(sorted), pos, v)
}

// clampDelta limits d to [lo, hi]. A group that cannot fit does not move.
func clampDelta(d, lo, hi float64) float64 {
	if lo > hi {
		return 0
	}
	return geometry.Clamp(d, lo, hi)
}

// Editor owns a State and applies events to it in place.
type Editor struct {
	state State
}

// NewEditor returns an editor over scene.
func NewEditor(scene Scene) *Editor {
	return &Editor{state: NewState(scene)}
}

// State returns the current state.
func (e *Editor) State() State {
	return e.state
}

// Scene returns the current scene.
func (e *Editor) Scene() Scene {
	return e.state.Scene
}

// SetScene replaces the scene wholesale. Selection and undo history are
// cleared; the view is kept.
func (e *Editor) SetScene(scene Scene) {
	view := e.state.View
	e.state = NewState(scene)
	e.state.View = view
}

// Select replaces the selection with the given item indices.
func (e *Editor) Select(indices ...int) {
	var sel []int
	for _, i := range indices {
		if i >= 0 && i < e.state.Scene.Len() {
			sel = insertSorted(sel, i)
		}
	}
	e.state.Selected = sel
}

// View returns a pointer to the view transform for direct manipulation.
func (e *Editor) View() *viewport.Viewport {
	return &e.state.View
}

// Handle applies one event.
func (e *Editor) Handle(ev input.Event) Effect {
	var eff Effect
	e.state, eff = Step(e.state, ev)
	return eff
}

// Resolve answers an outstanding Z request.
func (e *Editor) Resolve(resp prompt.Response) Effect {
	var eff Effect
	e.state, eff = Resolve(e.state, resp)
	return eff
}

// HandleWith applies ev and, if it raises a request, answers it from port
// before returning.
func (e *Editor) HandleWith(ev input.Event, port prompt.Port) Effect {
	eff := e.Handle(ev)
	if eff.Request == nil || port == nil {
		return eff
	}
	return eff.merge(e.Resolve(port.Ask(*eff.Request)))
}

// Undo restores the most recent snapshot.
func (e *Editor) Undo() Effect {
	return e.Handle(input.KeyPress(input.KeyUndo))
}
