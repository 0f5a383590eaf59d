// Package region holds atlas regions defined over a source image and the
// editing state machine that draws, moves and resizes them.
package region

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"atlas-editor/pkg/geometry"
)

// MinDrawSize is the size a drawn rectangle must exceed on both axes to be
// kept.
const MinDrawSize = 5

var (
	ErrInvalidRegion = errors.New("invalid region")
	ErrDuplicateName = errors.New("duplicate region name")
)

// Region is a named rectangle in image space.
type Region struct {
	Name   string
	Bounds geometry.RectInt
}

// Validate checks a region list as loaded from a file: every name must be
// non-empty and unique and every size positive.
func Validate(regions []Region) error {
	seen := make(map[string]bool, len(regions))
	for i, r := range regions {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: entry %d has no name", ErrInvalidRegion, i)
		}
		if r.Bounds.Width <= 0 || r.Bounds.Height <= 0 {
			return fmt.Errorf("%w: %q has size %dx%d", ErrInvalidRegion, r.Name, r.Bounds.Width, r.Bounds.Height)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// Overlaps reports whether candidate intersects any region other than the
// one at index skip (pass -1 to test against all).
func Overlaps(regions []Region, candidate geometry.RectInt, skip int) bool {
	for i, r := range regions {
		if i == skip {
			continue
		}
		if candidate.Intersects(r.Bounds) {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the named region, or -1.
func IndexOf(regions []Region, name string) int {
	for i, r := range regions {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// TopmostAt returns the last region containing p, or -1. Later regions are
// drawn on top.
func TopmostAt(regions []Region, p geometry.Point2D) int {
	for i := len(regions) - 1; i >= 0; i-- {
		if regions[i].Bounds.ToFloat().Contains(p) {
			return i
		}
	}
	return -1
}

// UniqueName returns prefix_N for the first N not already used.
func UniqueName(regions []Region, prefix string) string {
	for n := len(regions) + 1; ; n++ {
		name := fmt.Sprintf("%s_%d", prefix, n)
		if IndexOf(regions, name) < 0 {
			return name
		}
	}
}

// AddDetected appends a region named prefix_N for each candidate that lies
// inside the image and overlaps neither an existing region nor an earlier
// candidate. It returns the new list and the number added.
func AddDetected(regions []Region, candidates []geometry.RectInt, w, h int, prefix string) ([]Region, int) {
	out := slices.Clone(regions)
	added := 0
	for _, c := range candidates {
		if c.Empty() || !c.In(w, h) || Overlaps(out, c, -1) {
			continue
		}
		out = append(out, Region{Name: UniqueName(out, prefix), Bounds: c})
		added++
	}
	return out, added
}

// Slug turns free text into a region name: lower case letters, digits and
// single underscores, at most 32 characters.
func Slug(text string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
		if b.Len() >= 32 {
			break
		}
	}
	return strings.TrimRight(b.String()[:min(b.Len(), 32)], "_")
}
