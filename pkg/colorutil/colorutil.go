// Package colorutil provides shared overlay colors and blending helpers.
package colorutil

import (
	"image/color"
)

// Common overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan    = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	Green   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow  = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Orange  = color.RGBA{R: 255, G: 160, B: 0, A: 255}

	// Canvas backgrounds
	Backdrop   = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	WorldFill  = color.RGBA{R: 52, G: 52, B: 58, A: 255}
	WorldFrame = color.RGBA{R: 110, G: 110, B: 120, A: 255}
)

// WithAlpha returns c with its alpha replaced and its channels premultiplied
// to match, as color.RGBA requires.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 255),
		G: uint8(uint16(c.G) * uint16(a) / 255),
		B: uint8(uint16(c.B) * uint16(a) / 255),
		A: a,
	}
}

// Luminance returns the relative brightness of c in 0-255 (Rec. 601 weights).
func Luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257
}

// LabelOn returns black or white, whichever reads better over bg.
func LabelOn(bg color.Color) color.RGBA {
	if Luminance(bg) > 140 {
		return Black
	}
	return White
}
