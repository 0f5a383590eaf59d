package arrange

import (
	"image"

	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/viewport"
)

// Compose renders the scene at zoom 1 onto a WorldWidth x WorldHeight
// canvas, bottom item first.
func Compose(s Scene) *image.RGBA {
	c := atlasimage.NewComposite(WorldWidth, WorldHeight)
	c.BackColor = image.Transparent.C
	for _, i := range s.order {
		it := s.items[i]
		c.AddLayer(it.Fragment, it.Bounds)
	}
	return c.Render()
}

// Render draws the scene's fragments into dst through vp. Overlays such as
// selection outlines are left to the caller.
func Render(dst *image.RGBA, s Scene, vp viewport.Viewport) {
	for _, i := range s.order {
		it := s.items[i]
		atlasimage.DrawScaled(dst, it.Fragment, vp.ToScreenRect(it.Bounds))
	}
}
