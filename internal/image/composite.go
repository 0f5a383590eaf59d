package image

import (
	"image"
	"image/color"

	"atlas-editor/pkg/geometry"

	"golang.org/x/image/draw"
)

// Composite stacks images onto a fixed-size canvas. Layers are drawn in the
// order they were added, each scaled into its destination rectangle.
type Composite struct {
	Width     int
	Height    int
	Layers    []CompositeLayer
	BackColor color.Color
}

// CompositeLayer is one image and where it lands on the canvas.
type CompositeLayer struct {
	Image image.Image
	Dest  geometry.Rect
}

// NewComposite creates a new Composite with the specified dimensions.
func NewComposite(width, height int) *Composite {
	return &Composite{
		Width:     width,
		Height:    height,
		BackColor: color.RGBA{40, 40, 40, 255}, // Dark gray background
	}
}

// AddLayer adds an image to be drawn into dest.
func (c *Composite) AddLayer(img image.Image, dest geometry.Rect) {
	c.Layers = append(c.Layers, CompositeLayer{Image: img, Dest: dest})
}

// Render produces the final composited image.
func (c *Composite) Render() *image.RGBA {
	result := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	if c.BackColor != nil {
		draw.Draw(result, result.Bounds(), &image.Uniform{c.BackColor}, image.Point{}, draw.Src)
	}
	for _, l := range c.Layers {
		DrawScaled(result, l.Image, l.Dest)
	}
	return result
}

// DrawScaled draws src over dst, scaled to fill dest. Destinations with no
// pixel area are skipped. Unscaled copies use a plain blend; scaled ones use
// nearest neighbour so pixel art stays crisp when zoomed in.
func DrawScaled(dst draw.Image, src image.Image, dest geometry.Rect) {
	if src == nil {
		return
	}
	r := dest.ToInt().ImageRect()
	if r.Empty() || !r.Overlaps(dst.Bounds()) {
		return
	}
	sb := src.Bounds()
	if r.Dx() == sb.Dx() && r.Dy() == sb.Dy() {
		draw.Draw(dst, r, src, sb.Min, draw.Over)
		return
	}
	draw.NearestNeighbor.Scale(dst, r, src, sb, draw.Over, nil)
}
