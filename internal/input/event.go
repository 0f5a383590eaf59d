// Package input defines toolkit-independent pointer and keyboard event records
// consumed by the editor state machines.
package input

import "gonum.org/v1/gonum/spatial/r2"

// Kind identifies the type of an event.
type Kind int

const (
	Press Kind = iota
	Release
	Move
	Scroll
	DoubleClick
	KeyDown
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Move:
		return "Move"
	case Scroll:
		return "Scroll"
	case DoubleClick:
		return "DoubleClick"
	case KeyDown:
		return "KeyDown"
	default:
		return "Unknown"
	}
}

// Button is the pointer button involved in a press or release.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Modifier is a bitset of held modifier keys.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Toggle reports whether the multi-select toggle modifier is held.
func (m Modifier) Toggle() bool {
	return m&(ModShift|ModControl|ModSuper) != 0
}

// Key identifies the editing keys the editors react to.
type Key int

const (
	KeyNone Key = iota
	KeyDelete
	KeyEscape
	KeyUndo
)

// Event is a single input record. Pos is in screen pixels relative to the
// view's origin.
type Event struct {
	Kind     Kind
	Button   Button
	Pos      r2.Vec
	Mods     Modifier
	ScrollDY float64
	Key      Key
}

// PressAt returns a button press at (x, y).
func PressAt(b Button, x, y float64, mods ...Modifier) Event {
	return Event{Kind: Press, Button: b, Pos: r2.Vec{X: x, Y: y}, Mods: combine(mods)}
}

// ReleaseAt returns a button release at (x, y).
func ReleaseAt(b Button, x, y float64) Event {
	return Event{Kind: Release, Button: b, Pos: r2.Vec{X: x, Y: y}}
}

// MoveTo returns a pointer motion to (x, y).
func MoveTo(x, y float64) Event {
	return Event{Kind: Move, Pos: r2.Vec{X: x, Y: y}}
}

// ScrollAt returns a wheel event; positive dy zooms in.
func ScrollAt(x, y, dy float64) Event {
	return Event{Kind: Scroll, Pos: r2.Vec{X: x, Y: y}, ScrollDY: dy}
}

// DoubleClickAt returns a double click at (x, y).
func DoubleClickAt(x, y float64) Event {
	return Event{Kind: DoubleClick, Button: ButtonLeft, Pos: r2.Vec{X: x, Y: y}}
}

// KeyPress returns a key event.
func KeyPress(k Key) Event {
	return Event{Kind: KeyDown, Key: k}
}

func combine(mods []Modifier) Modifier {
	var m Modifier
	for _, mod := range mods {
		m |= mod
	}
	return m
}
