// Package arrange places cropped fragments on the fixed arrangement canvas
// and implements selection, group drag, stacking edits and undo over them.
package arrange

import (
	"cmp"
	"image"
	"log"
	"slices"

	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"
)

// World is the arrangement area in world units.
const (
	WorldWidth  = 1280
	WorldHeight = 720
)

// WorldRect returns the arrangement area.
func WorldRect() geometry.Rect {
	return geometry.NewRect(0, 0, WorldWidth, WorldHeight)
}

// Item is a placed fragment. Fragment is never modified after creation.
type Item struct {
	Name     string
	Fragment image.Image
	Bounds   geometry.Rect
	Z        int
}

// Scene holds items in insertion order together with their draw order.
// Methods with pointer receivers mutate in place; callers holding a Scene
// inside a value State clone it first.
type Scene struct {
	items []Item
	order []int
}

// NewScene crops one fragment per region from src. Regions not fully inside
// the image are skipped; the number skipped is returned.
func NewScene(src image.Image, regions []region.Region) (Scene, int) {
	var s Scene
	skipped := 0
	for _, r := range regions {
		frag, ok := atlasimage.Crop(src, r.Bounds)
		if !ok {
			skipped++
			continue
		}
		s.Add(Item{Name: r.Name, Fragment: frag, Bounds: r.Bounds.ToFloat()})
	}
	if skipped > 0 {
		log.Printf("arrange: skipped %d region(s) outside the image", skipped)
	}
	return s, skipped
}

// Add appends an item on top of others with the same Z.
func (s *Scene) Add(it Item) {
	s.items = append(s.items, it)
	s.sortOrder()
}

// Clone returns a scene that shares fragments but no slices with s.
func (s Scene) Clone() Scene {
	return Scene{items: slices.Clone(s.items), order: slices.Clone(s.order)}
}

// Len returns the number of items.
func (s Scene) Len() int { return len(s.items) }

// Item returns the item at insertion index i.
func (s Scene) Item(i int) Item { return s.items[i] }

// Items returns a copy of the items in insertion order.
func (s Scene) Items() []Item { return slices.Clone(s.items) }

// DrawOrder returns item indices from bottom to top: ascending Z, ties in
// insertion order.
func (s Scene) DrawOrder() []int { return slices.Clone(s.order) }

// HitTop returns the topmost item whose bounds contain p, or -1.
func (s Scene) HitTop(p geometry.Point2D) int {
	for k := len(s.order) - 1; k >= 0; k-- {
		i := s.order[k]
		if s.items[i].Bounds.Contains(p) {
			return i
		}
	}
	return -1
}

// ByName returns the index of the first item with the given name, or -1.
func (s Scene) ByName(name string) int {
	for i, it := range s.items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Intersecting returns the indices of items whose bounds intersect r.
func (s Scene) Intersecting(r geometry.Rect) []int {
	var out []int
	for i, it := range s.items {
		if it.Bounds.Intersects(r) {
			out = append(out, i)
		}
	}
	return out
}

// SetBounds moves item i.
func (s *Scene) SetBounds(i int, r geometry.Rect) {
	s.items[i].Bounds = r
}

// SetZ changes item i's stacking key and re-sorts the draw order.
func (s *Scene) SetZ(i, z int) {
	s.items[i].Z = z
	s.sortOrder()
}

func (s *Scene) sortOrder() {
	s.order = s.order[:0]
	for i := range s.items {
		s.order = append(s.order, i)
	}
	slices.SortStableFunc(s.order, func(a, b int) int {
		return cmp.Compare(s.items[a].Z, s.items[b].Z)
	})
}
