package detect

import (
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
)

// toRGBA returns img as an *image.RGBA with its origin at (0,0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// RGBAMat converts img to a four channel OpenCV Mat in RGBA order.
func RGBAMat(img image.Image) (gocv.Mat, error) {
	rgba := toRGBA(img)
	b := rgba.Bounds()
	return gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, rgba.Pix)
}

// BGRMat converts img to a three channel OpenCV Mat in BGR order.
func BGRMat(img image.Image) (gocv.Mat, error) {
	mat, err := RGBAMat(img)
	if err != nil {
		return gocv.Mat{}, err
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(mat, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// BorderColor samples the border pixels of an image and returns their
// average color, taken to be the sheet background.
func BorderColor(img *image.RGBA) color.RGBA {
	bounds := img.Bounds()
	var r, g, b, count uint64

	add := func(c color.RGBA) {
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
		count++
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		add(img.RGBAAt(x, bounds.Min.Y))
		add(img.RGBAAt(x, bounds.Max.Y-1))
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		add(img.RGBAAt(bounds.Min.X, y))
		add(img.RGBAAt(bounds.Max.X-1, y))
	}

	if count == 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(b / count),
		A: 255,
	}
}

// hasTransparency reports whether any pixel is not fully opaque.
func hasTransparency(img *image.RGBA) bool {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0xff {
				return true
			}
		}
	}
	return false
}
