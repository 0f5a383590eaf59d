// Package hittest classifies a pointer position relative to a rectangle into
// move and resize-handle zones.
package hittest

import (
	"math"

	"atlas-editor/pkg/geometry"
)

// Tolerance is the edge grab distance in logical units.
const Tolerance = 8.0

// Zone is the result of classifying a point against a rectangle.
type Zone int

const (
	None Zone = iota
	Move
	LeftEdge
	RightEdge
	TopEdge
	BottomEdge
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

func (z Zone) String() string {
	switch z {
	case Move:
		return "Move"
	case LeftEdge:
		return "LeftEdge"
	case RightEdge:
		return "RightEdge"
	case TopEdge:
		return "TopEdge"
	case BottomEdge:
		return "BottomEdge"
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case BottomLeft:
		return "BottomLeft"
	case BottomRight:
		return "BottomRight"
	default:
		return "None"
	}
}

// Classify places p into one of the zones of r. Corners win over edges,
// edges win over the interior, and the interior wins over None.
//
// An edge flag only counts while p is within tol of the rectangle on the
// other axis, so points far outside the rectangle are None.
func Classify(r geometry.Rect, p geometry.Point2D, tol float64) Zone {
	inX := p.X >= r.X-tol && p.X <= r.Right()+tol
	inY := p.Y >= r.Y-tol && p.Y <= r.Bottom()+tol

	left := inY && math.Abs(p.X-r.X) <= tol
	right := inY && math.Abs(p.X-r.Right()) <= tol
	top := inX && math.Abs(p.Y-r.Y) <= tol
	bottom := inX && math.Abs(p.Y-r.Bottom()) <= tol

	// A rectangle thinner than 2*tol sets both flags of an axis; the nearer
	// edge wins.
	if left && right {
		if math.Abs(p.X-r.X) <= math.Abs(p.X-r.Right()) {
			right = false
		} else {
			left = false
		}
	}
	if top && bottom {
		if math.Abs(p.Y-r.Y) <= math.Abs(p.Y-r.Bottom()) {
			bottom = false
		} else {
			top = false
		}
	}

	switch {
	case top && left:
		return TopLeft
	case top && right:
		return TopRight
	case bottom && left:
		return BottomLeft
	case bottom && right:
		return BottomRight
	case left:
		return LeftEdge
	case right:
		return RightEdge
	case top:
		return TopEdge
	case bottom:
		return BottomEdge
	case r.Contains(p):
		return Move
	default:
		return None
	}
}

// MovesLeft reports whether dragging this zone moves the left edge.
func (z Zone) MovesLeft() bool {
	return z == Move || z == LeftEdge || z == TopLeft || z == BottomLeft
}

// MovesRight reports whether dragging this zone moves the right edge.
func (z Zone) MovesRight() bool {
	return z == Move || z == RightEdge || z == TopRight || z == BottomRight
}

// MovesTop reports whether dragging this zone moves the top edge.
func (z Zone) MovesTop() bool {
	return z == Move || z == TopEdge || z == TopLeft || z == TopRight
}

// MovesBottom reports whether dragging this zone moves the bottom edge.
func (z Zone) MovesBottom() bool {
	return z == Move || z == BottomEdge || z == BottomLeft || z == BottomRight
}

// IsResize reports whether the zone is one of the eight resize handles.
func (z Zone) IsResize() bool {
	return z != None && z != Move
}
