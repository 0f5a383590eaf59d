// Package detect finds candidate sprite rectangles in a sheet image.
//
// Foreground is taken from the alpha channel when the image has any
// transparency, and otherwise from distance to the border color. Nearby
// foreground is joined with a morphological close before external contours
// are boxed.
package detect

import (
	"fmt"
	"image"
	"log"
	"slices"

	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"

	"gocv.io/x/gocv"
)

// Options controls detection.
type Options struct {
	MinSize     int     // Boxes must exceed this on both axes
	Tolerance   float64 // Gray-level distance from the background counted as foreground
	CloseKernel int     // Close kernel size in pixels; 0 disables
}

// DefaultOptions returns options matching the editor's minimum region size.
func DefaultOptions() Options {
	return Options{
		MinSize:     region.MinDrawSize,
		Tolerance:   24,
		CloseKernel: 3,
	}
}

// Regions returns bounding boxes of foreground blobs, ordered top to bottom
// then left to right.
func Regions(img image.Image, opts Options) ([]geometry.RectInt, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}
	rgba := toRGBA(img)

	mat, err := RGBAMat(rgba)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	var mask gocv.Mat
	if hasTransparency(rgba) {
		mask = alphaMask(mat)
	} else {
		mask = backgroundMask(mat, rgba, opts.Tolerance)
	}
	defer mask.Close()

	if opts.CloseKernel > 0 {
		kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{opts.CloseKernel, opts.CloseKernel})
		defer kernel.Close()
		gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var rects []geometry.RectInt
	for i := 0; i < contours.Size(); i++ {
		r := geometry.RectFromImage(gocv.BoundingRect(contours.At(i)))
		if r.Width > opts.MinSize && r.Height > opts.MinSize {
			rects = append(rects, r)
		}
	}
	slices.SortFunc(rects, func(a, b geometry.RectInt) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	log.Printf("detect: %d contours, %d regions kept", contours.Size(), len(rects))
	return rects, nil
}

func alphaMask(rgba gocv.Mat) gocv.Mat {
	channels := gocv.Split(rgba)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	mask := gocv.NewMat()
	gocv.Threshold(channels[3], &mask, 0, 255, gocv.ThresholdBinary)
	return mask
}

func backgroundMask(rgba gocv.Mat, img *image.RGBA, tolerance float64) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(rgba, &gray, gocv.ColorRGBAToGray)

	bg := BorderColor(img)
	level := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	bgMat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(level, 0, 0, 0), gray.Rows(), gray.Cols(), gocv.MatTypeCV8U)
	defer bgMat.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, bgMat, &diff)

	mask := gocv.NewMat()
	gocv.Threshold(diff, &mask, float32(tolerance), 255, gocv.ThresholdBinary)
	return mask
}
