package canvas

import (
	"fmt"
	"image"
	"image/color"

	"atlas-editor/internal/arrange"
	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/region"
	"atlas-editor/internal/viewport"
	"atlas-editor/pkg/colorutil"
	"atlas-editor/pkg/geometry"

	"golang.org/x/image/draw"
)

// Overlay colors.
var (
	regionColor   = colorutil.Cyan
	selectedColor = colorutil.Yellow
	draftColor    = colorutil.Green
	rejectColor   = colorutil.Orange
	bandColor     = colorutil.Magenta
)

func fillAll(dst *image.RGBA, col color.RGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// PaintRegions draws the source image and region overlays for st into dst.
// vp is st.View already scaled to dst's pixel density.
func PaintRegions(dst *image.RGBA, src image.Image, st region.State, vp viewport.Viewport) {
	fillAll(dst, colorutil.Backdrop)
	if src == nil {
		return
	}
	imgRect := vp.ToScreenRect(geometry.NewRect(0, 0, float64(st.Width), float64(st.Height)))
	atlasimage.DrawScaled(dst, src, imgRect)

	scale := labelScale(vp.Zoom)
	for i, r := range st.Regions {
		if i == st.Selected {
			continue
		}
		px := pixelRect(vp.ToScreenRect(r.Bounds.ToFloat()))
		StrokeRect(dst, px, regionColor, 2)
		Tag(dst, px, r.Name, colorutil.WithAlpha(regionColor, 200), scale)
	}
	if r, ok := st.SelectedRegion(); ok {
		px := pixelRect(vp.ToScreenRect(r.Bounds.ToFloat()))
		FillRect(dst, px, colorutil.WithAlpha(selectedColor, 40))
		StrokeRect(dst, px, selectedColor, 2)
		Handles(dst, px, selectedColor, 7)
		Tag(dst, px, r.Name, colorutil.WithAlpha(selectedColor, 220), scale)
	}

	if st.Mode == region.DrawingNew || st.Awaiting() {
		if !st.Draft.Empty() {
			px := pixelRect(vp.ToScreenRect(st.Draft.ToFloat()))
			col := draftColor
			if st.Mode == region.DrawingNew && (st.Draft.Width <= region.MinDrawSize || st.Draft.Height <= region.MinDrawSize) {
				col = rejectColor
			}
			FillRect(dst, px, colorutil.WithAlpha(col, 50))
			DashRect(dst, px, col)
		}
	}
}

// PaintArrangement draws the arrangement area, its fragments and the
// selection overlays for st into dst.
func PaintArrangement(dst *image.RGBA, st arrange.State, vp viewport.Viewport) {
	fillAll(dst, colorutil.Backdrop)
	world := pixelRect(vp.ToScreenRect(arrange.WorldRect()))
	FillRect(dst, world, colorutil.WorldFill)
	arrange.Render(dst, st.Scene, vp)
	StrokeRect(dst, world.Inset(-1), colorutil.WorldFrame, 1)

	scale := labelScale(vp.Zoom)
	for _, i := range st.Selected {
		it := st.Scene.Item(i)
		px := pixelRect(vp.ToScreenRect(it.Bounds))
		StrokeRect(dst, px, selectedColor, 2)
		Tag(dst, px, fmt.Sprintf("%s z=%d", it.Name, it.Z), colorutil.WithAlpha(selectedColor, 220), scale)
	}

	if st.Mode == arrange.BandSelecting {
		px := pixelRect(vp.ToScreenRect(st.Band))
		FillRect(dst, px, colorutil.WithAlpha(bandColor, 30))
		DashRect(dst, px, bandColor)
	}
}
