// Package panels provides the side panels listing regions and arrangement
// items.
package panels

import (
	"fmt"
	"slices"
	"strings"

	"atlas-editor/pkg/geometry"
)

// naturalLess compares two strings using natural numeric ordering.
// "icon_2" < "icon_10", "a1" < "a2" < "a10", etc.
func naturalLess(a, b string) bool {
	chunksA := splitNatural(a)
	chunksB := splitNatural(b)
	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		ca, cb := chunksA[i], chunksB[i]
		if isNumeric(ca) && isNumeric(cb) {
			na := parseNum(ca)
			nb := parseNum(cb)
			if na != nb {
				return na < nb
			}
		} else {
			cmp := strings.Compare(strings.ToUpper(ca), strings.ToUpper(cb))
			if cmp != 0 {
				return cmp < 0
			}
		}
	}
	return len(chunksA) < len(chunksB)
}

func splitNatural(s string) []string {
	var chunks []string
	var current strings.Builder
	wasDigit := false
	for i, r := range s {
		isDigit := r >= '0' && r <= '9'
		if i > 0 && isDigit != wasDigit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteRune(r)
		wasDigit = isDigit
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseNum(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
		}
	}
	return n
}

// naturalOrder returns the indices of names sorted by natural order. Equal
// names keep their original order.
func naturalOrder(names []string) []int {
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case naturalLess(names[a], names[b]):
			return -1
		case naturalLess(names[b], names[a]):
			return 1
		}
		return 0
	})
	return idx
}

func formatRectInt(r geometry.RectInt) string {
	return fmt.Sprintf("%d,%d  %dx%d", r.X, r.Y, r.Width, r.Height)
}

func formatRect(r geometry.Rect) string {
	return fmt.Sprintf("%.0f,%.0f  %.0fx%.0f", r.X, r.Y, r.Width, r.Height)
}
