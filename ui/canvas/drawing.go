// Package canvas provides drawing primitives for the editor views.
package canvas

import (
	"image"
	"image/color"

	"atlas-editor/pkg/colorutil"
	"atlas-editor/pkg/geometry"

	"golang.org/x/image/draw"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters A-Z and the symbols
// that appear in region names and Z labels.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'_': {0b000, 0b000, 0b000, 0b000, 0b111},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'=': {0b000, 0b111, 0b000, 0b111, 0b000},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// pixelRect converts a screen-space rectangle to integer pixels.
func pixelRect(r geometry.Rect) image.Rectangle {
	x0, y0 := int(r.X+0.5), int(r.Y+0.5)
	return image.Rect(x0, y0, int(r.Right()+0.5), int(r.Bottom()+0.5))
}

// FillRect blends col over r.
func FillRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(col), image.Point{}, draw.Over)
}

// StrokeRect draws a rectangle outline of the given thickness inside r.
func StrokeRect(dst *image.RGBA, r image.Rectangle, col color.RGBA, thickness int) {
	if r.Empty() {
		return
	}
	t := min(thickness, r.Dx(), r.Dy())
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), col)
	FillRect(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), col)
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y+t, r.Min.X+t, r.Max.Y-t), col)
	FillRect(dst, image.Rect(r.Max.X-t, r.Min.Y+t, r.Max.X, r.Max.Y-t), col)
}

// DashRect draws a one pixel dashed outline, used for rubber bands and
// drafts.
func DashRect(dst *image.RGBA, r image.Rectangle, col color.RGBA) {
	bounds := dst.Bounds()
	set := func(x, y int) {
		if (x+y)%8 < 4 && image.Pt(x, y).In(bounds) {
			dst.SetRGBA(x, y, col)
		}
	}
	x2, y2 := r.Max.X-1, r.Max.Y-1
	for x := r.Min.X; x <= x2; x++ {
		set(x, r.Min.Y)
		set(x, y2)
	}
	for y := r.Min.Y; y <= y2; y++ {
		set(r.Min.X, y)
		set(x2, y)
	}
}

// Handles draws small squares at the corners and edge midpoints of r.
func Handles(dst *image.RGBA, r image.Rectangle, col color.RGBA, size int) {
	h := size / 2
	cx, cy := (r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2
	for _, p := range []image.Point{
		r.Min, image.Pt(cx, r.Min.Y), image.Pt(r.Max.X, r.Min.Y),
		image.Pt(r.Min.X, cy), image.Pt(r.Max.X, cy),
		image.Pt(r.Min.X, r.Max.Y), image.Pt(cx, r.Max.Y), r.Max,
	} {
		box := image.Rect(p.X-h, p.Y-h, p.X-h+size, p.Y-h+size)
		FillRect(dst, box, colorutil.White)
		StrokeRect(dst, box, col, 1)
	}
}

// TextSize returns the pixel size of label drawn at scale.
func TextSize(label string, scale int) image.Point {
	n := len([]rune(label))
	if n == 0 {
		return image.Point{}
	}
	return image.Pt(n*3*scale+(n-1)*scale, 5*scale)
}

// DrawText draws label with its top-left corner at (x, y).
func DrawText(dst *image.RGBA, label string, x, y int, col color.RGBA, scale int) {
	bounds := dst.Bounds()
	charWidth := 3 * scale
	for i, ch := range []rune(label) {
		pattern := getCharPattern(ch)
		charX := x + i*(charWidth+scale)
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if pattern[row]&(1<<(2-c)) == 0 {
					continue
				}
				block := image.Rect(0, 0, scale, scale).Add(image.Pt(charX+c*scale, y+row*scale))
				draw.Draw(dst, block.Intersect(bounds), image.NewUniform(col), image.Point{}, draw.Src)
			}
		}
	}
}

// Tag draws label on a filled plate anchored at the top-left of r, the way
// region and item names are shown.
func Tag(dst *image.RGBA, r image.Rectangle, label string, bg color.RGBA, scale int) {
	if label == "" {
		return
	}
	size := TextSize(label, scale)
	pad := scale
	plate := image.Rect(r.Min.X, r.Min.Y-size.Y-2*pad, r.Min.X+size.X+2*pad, r.Min.Y)
	if plate.Min.Y < dst.Bounds().Min.Y {
		plate = plate.Add(image.Pt(0, size.Y+2*pad))
	}
	FillRect(dst, plate, bg)
	DrawText(dst, label, plate.Min.X+pad, plate.Min.Y+pad, colorutil.LabelOn(bg), scale)
}

// labelScale picks a font scale for a zoom level.
func labelScale(zoom float64) int {
	return max(1, min(3, int(zoom*2)))
}
