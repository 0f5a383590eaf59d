package region

import (
	"fmt"
	"math"
	"slices"

	"atlas-editor/internal/hittest"
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
	DrawingNew
	MovingOrResizing
)

func (m Mode) String() string {
	switch m {
	case DrawingNew:
		return "DrawingNew"
	case MovingOrResizing:
		return "MovingOrResizing"
	default:
		return "Idle"
	}
}

type pendingKind int

const (
	pendingCreate pendingKind = iota
	pendingRename
)

// pending is a name request waiting for its answer. Events are ignored while
// one is outstanding.
type pending struct {
	kind   pendingKind
	bounds geometry.RectInt
	index  int
}

// Effect tells the host what a transition did.
type Effect struct {
	Redraw   bool
	Modified bool
	Cursor   hittest.Zone
	Request  *prompt.Request
	Notice   string
}

func (e Effect) merge(next Effect) Effect {
	e.Redraw = e.Redraw || next.Redraw
	e.Modified = e.Modified || next.Modified
	e.Cursor = next.Cursor
	e.Request = next.Request
	if next.Notice != "" {
		e.Notice = next.Notice
	}
	return e
}

// State is the complete editing state of one region view. It is passed by
// value; transitions return a new State and never write through the
// Regions slice of the State they were given.
type State struct {
	Width, Height int
	Regions       []Region
	Selected      int
	Mode          Mode
	Panning       bool
	View          viewport.Viewport

	// Draft is the rectangle being drawn, or awaiting a name.
	Draft geometry.RectInt

	anchor  geometry.PointInt
	zone    hittest.Zone
	origin  geometry.RectInt
	press   geometry.Point2D
	panLast r2.Vec
	pending *pending
}

// NewState returns an idle state over a w x h image.
func NewState(w, h int, regions []Region) State {
	return State{
		Width:    w,
		Height:   h,
		Regions:  slices.Clone(regions),
		Selected: -1,
		View:     viewport.New(),
	}
}

// Awaiting reports whether a name request is outstanding.
func (s State) Awaiting() bool {
	return s.pending != nil
}

// SelectedRegion returns the selected region, if any.
func (s State) SelectedRegion() (Region, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Regions) {
		return Region{}, false
	}
	return s.Regions[s.Selected], true
}

// Step applies one input event.
func Step(s State, ev input.Event) (State, Effect) {
	if s.pending != nil {
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
		case DrawingNew:
			return s.dragDraw(ev)
		case MovingOrResizing:
			return s.dragEdit(ev)
		default:
			return s, Effect{Cursor: s.hover(s.View.ToWorldPoint(ev.Pos))}
		}
	case input.Release:
		switch ev.Button {
		case input.ButtonLeft:
			return s.releaseLeft()
		case input.ButtonRight:
			s.Panning = false
			return s, Effect{}
		}
	case input.Scroll:
		return s.scroll(ev)
	case input.DoubleClick:
		return s.doubleClick(ev)
	case input.KeyDown:
		return s.key(ev.Key)
	}
	return s, Effect{}
}

// Resolve answers the outstanding name request. Cancelled, blank or
// duplicate names discard the request and leave the regions unchanged.
func Resolve(s State, resp prompt.Response) (State, Effect) {
	p := s.pending
	if p == nil {
		return s, Effect{}
	}
	s.pending = nil
	s.Draft = geometry.RectInt{}

	name, ok := prompt.Name(resp)
	switch p.kind {
	case pendingCreate:
		if !ok {
			return s, Effect{Redraw: true}
		}
		if IndexOf(s.Regions, name) >= 0 {
			return s, Effect{Redraw: true, Notice: fmt.Sprintf("A region named %q already exists", name)}
		}
		if Overlaps(s.Regions, p.bounds, -1) {
			return s, Effect{Redraw: true}
		}
		s.Regions = append(slices.Clone(s.Regions), Region{Name: name, Bounds: p.bounds})
		s.Selected = len(s.Regions) - 1
		return s, Effect{Redraw: true, Modified: true}

	case pendingRename:
		if !ok || p.index >= len(s.Regions) || s.Regions[p.index].Name == name {
			return s, Effect{}
		}
		if IndexOf(s.Regions, name) >= 0 {
			return s, Effect{Notice: fmt.Sprintf("A region named %q already exists", name)}
		}
		s.Regions = slices.Clone(s.Regions)
		s.Regions[p.index].Name = name
		return s, Effect{Redraw: true, Modified: true}
	}
	return s, Effect{}
}

func (s State) pressLeft(ev input.Event) (State, Effect) {
	p := s.View.ToWorldPoint(ev.Pos)

	if r, ok := s.SelectedRegion(); ok {
		if z := hittest.Classify(r.Bounds.ToFloat(), p, hittest.Tolerance); z != hittest.None {
			return s.beginEdit(s.Selected, z, p), Effect{Redraw: true, Cursor: z}
		}
	}
	if i := TopmostAt(s.Regions, p); i >= 0 {
		z := hittest.Classify(s.Regions[i].Bounds.ToFloat(), p, hittest.Tolerance)
		if z == hittest.None {
			z = hittest.Move
		}
		return s.beginEdit(i, z, p), Effect{Redraw: true, Cursor: z}
	}

	s.Selected = -1
	s.Mode = DrawingNew
	s.anchor = s.clampPoint(p)
	s.Draft = geometry.RectInt{X: s.anchor.X, Y: s.anchor.Y}
	return s, Effect{Redraw: true}
}

func (s State) beginEdit(i int, z hittest.Zone, p geometry.Point2D) State {
	s.Selected = i
	s.Mode = MovingOrResizing
	s.zone = z
	s.origin = s.Regions[i].Bounds
	s.press = p
	return s
}

func (s State) dragDraw(ev input.Event) (State, Effect) {
	cur := s.clampPoint(s.View.ToWorldPoint(ev.Pos))
	cand := geometry.RectFromCorners(s.anchor, cur)
	if Overlaps(s.Regions, cand, -1) {
		return s, Effect{}
	}
	s.Draft = cand
	return s, Effect{Redraw: true}
}

func (s State) dragEdit(ev input.Event) (State, Effect) {
	d := s.View.ToWorldPoint(ev.Pos).Sub(s.press)
	dx := int(math.Round(d.X))
	dy := int(math.Round(d.Y))

	o := s.origin
	l, t, r, b := o.X, o.Y, o.Right(), o.Bottom()
	if s.zone == hittest.Move {
		dx = clampDelta(dx, -l, s.Width-r)
		dy = clampDelta(dy, -t, s.Height-b)
		l, r = l+dx, r+dx
		t, b = t+dy, b+dy
	} else {
		if s.zone.MovesLeft() {
			l = geometry.ClampInt(l+dx, 0, r-1)
		}
		if s.zone.MovesRight() {
			r = geometry.ClampInt(r+dx, l+1, s.Width)
		}
		if s.zone.MovesTop() {
			t = geometry.ClampInt(t+dy, 0, b-1)
		}
		if s.zone.MovesBottom() {
			b = geometry.ClampInt(b+dy, t+1, s.Height)
		}
	}
	if r-l < 1 || b-t < 1 {
		return s, Effect{Cursor: s.zone}
	}

	cand := geometry.RectInt{X: l, Y: t, Width: r - l, Height: b - t}
	if cand == s.Regions[s.Selected].Bounds || Overlaps(s.Regions, cand, s.Selected) {
		return s, Effect{Cursor: s.zone}
	}
	s.Regions = slices.Clone(s.Regions)
	s.Regions[s.Selected].Bounds = cand
	return s, Effect{Redraw: true, Modified: true, Cursor: s.zone}
}

func (s State) releaseLeft() (State, Effect) {
	switch s.Mode {
	case DrawingNew:
		s.Mode = Idle
		d := s.Draft
		if d.Width > MinDrawSize && d.Height > MinDrawSize {
			s.pending = &pending{kind: pendingCreate, bounds: d, index: -1}
			return s, Effect{Redraw: true, Request: &prompt.Request{
				Kind:    prompt.KindName,
				Title:   "New Region",
				Message: fmt.Sprintf("Name for the %dx%d region at (%d, %d)", d.Width, d.Height, d.X, d.Y),
			}}
		}
		s.Draft = geometry.RectInt{}
		return s, Effect{Redraw: true}
	case MovingOrResizing:
		s.Mode = Idle
		s.zone = hittest.None
		return s, Effect{Redraw: true}
	}
	return s, Effect{}
}

func (s State) scroll(ev input.Event) (State, Effect) {
	factor := viewport.ZoomStep
	switch {
	case ev.ScrollDY < 0:
		factor = 1 / viewport.ZoomStep
	case ev.ScrollDY == 0:
		return s, Effect{}
	}
	return s, Effect{Redraw: s.View.ZoomAt(ev.Pos, factor)}
}

func (s State) doubleClick(ev input.Event) (State, Effect) {
	if s.Mode != Idle || s.Panning {
		return s, Effect{}
	}
	i := TopmostAt(s.Regions, s.View.ToWorldPoint(ev.Pos))
	if i < 0 {
		return s, Effect{}
	}
	s.Selected = i
	s.pending = &pending{kind: pendingRename, bounds: s.Regions[i].Bounds, index: i}
	return s, Effect{Redraw: true, Request: &prompt.Request{
		Kind:  prompt.KindName,
		Title: "Rename Region",
		Seed:  s.Regions[i].Name,
	}}
}

func (s State) key(k input.Key) (State, Effect) {
	switch k {
	case input.KeyDelete:
		if s.Mode != Idle || s.Selected < 0 || s.Selected >= len(s.Regions) {
			return s, Effect{}
		}
		s.Regions = slices.Delete(slices.Clone(s.Regions), s.Selected, s.Selected+1)
		s.Selected = -1
		return s, Effect{Redraw: true, Modified: true}
	case input.KeyEscape:
		if s.Mode == DrawingNew {
			s.Mode = Idle
			s.Draft = geometry.RectInt{}
			return s, Effect{Redraw: true}
		}
		if s.Mode == Idle && s.Selected >= 0 {
			s.Selected = -1
			return s, Effect{Redraw: true}
		}
	}
	return s, Effect{}
}

// hover returns the cursor hint for p without changing anything.
func (s State) hover(p geometry.Point2D) hittest.Zone {
	if r, ok := s.SelectedRegion(); ok {
		if z := hittest.Classify(r.Bounds.ToFloat(), p, hittest.Tolerance); z != hittest.None {
			return z
		}
	}
	if TopmostAt(s.Regions, p) >= 0 {
		return hittest.Move
	}
	return hittest.None
}

func (s State) clampPoint(p geometry.Point2D) geometry.PointInt {
	q := p.ToInt()
	return geometry.PointInt{
		X: geometry.ClampInt(q.X, 0, s.Width),
		Y: geometry.ClampInt(q.Y, 0, s.Height),
	}
}

// clampDelta limits d to [lo, hi]; a region that cannot fit does not move.
func clampDelta(d, lo, hi int) int {
	if lo > hi {
		return 0
	}
	return geometry.ClampInt(d, lo, hi)
}

// Editor owns a State and applies events to it in place. It is the form the
// UI and the command line tools use.
type Editor struct {
	state State
}

// NewEditor returns an editor over a w x h image.
func NewEditor(w, h int, regions []Region) *Editor {
	return &Editor{state: NewState(w, h, regions)}
}

// State returns the current state.
func (e *Editor) State() State {
	return e.state
}

// Regions returns a copy of the current regions.
func (e *Editor) Regions() []Region {
	return slices.Clone(e.state.Regions)
}

// Reset replaces the image size and regions, keeping the view.
func (e *Editor) Reset(w, h int, regions []Region) {
	view := e.state.View
	e.state = NewState(w, h, regions)
	e.state.View = view
}

// Select sets the selection; out of range indices clear it.
func (e *Editor) Select(i int) {
	if i < 0 || i >= len(e.state.Regions) {
		i = -1
	}
	e.state.Selected = i
}

// View returns a pointer to the view transform for direct manipulation.
func (e *Editor) View() *viewport.Viewport {
	return &e.state.View
}

// PendingBounds returns the rectangle a name request refers to.
func (e *Editor) PendingBounds() (geometry.RectInt, bool) {
	if e.state.pending == nil {
		return geometry.RectInt{}, false
	}
	return e.state.pending.bounds, true
}

// Handle applies one event.
func (e *Editor) Handle(ev input.Event) Effect {
	var eff Effect
	e.state, eff = Step(e.state, ev)
	return eff
}

// Resolve answers an outstanding name request.
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
