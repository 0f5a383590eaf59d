// Package ocr suggests region names by reading text inside a region.
package ocr

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"atlas-editor/internal/detect"
	atlasimage "atlas-editor/internal/image"
	"atlas-editor/internal/region"
	"atlas-editor/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// NameChars is the character set recognized for names.
const NameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_- "

// ErrNoText is returned when nothing usable was recognized.
var ErrNoText = errors.New("no text recognized")

// Engine provides OCR functionality using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// Recognize reads a single line of text from bounds within img.
func (e *Engine) Recognize(img image.Image, bounds geometry.RectInt) (string, error) {
	frag, ok := atlasimage.Crop(img, bounds)
	if !ok {
		return "", fmt.Errorf("invalid region bounds")
	}

	mat, err := detect.BGRMat(frag)
	if err != nil {
		return "", fmt.Errorf("failed to convert region: %w", err)
	}
	defer mat.Close()

	processed := preprocessForOCR(mat)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(NameChars); err != nil {
		return "", fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.Join(strings.Fields(text), " "), nil
}

// SuggestName recognizes text in bounds and turns it into a region name.
func (e *Engine) SuggestName(img image.Image, bounds geometry.RectInt) (string, error) {
	text, err := e.Recognize(img, bounds)
	if err != nil {
		return "", err
	}
	name := region.Slug(text)
	if name == "" {
		return "", ErrNoText
	}
	return name, nil
}

// preprocessForOCR upscales, binarizes and normalizes a region to dark text
// on a light background.
func preprocessForOCR(src gocv.Mat) gocv.Mat {
	h, w := src.Rows(), src.Cols()

	// Tesseract wants glyphs at least ~30px tall
	var scaled gocv.Mat
	if minDim := min(h, w); minDim < 64 {
		scale := 64.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(src, &scaled, image.Point{}, scale, scale, gocv.InterpolationCubic)
	} else {
		scaled = src.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	clahe := gocv.NewCLAHEWithParams(2.0, image.Point{8, 8})
	defer clahe.Close()

	enhanced := gocv.NewMat()
	clahe.Apply(gray, &enhanced)
	gray.Close()

	binary := gocv.NewMat()
	gocv.Threshold(enhanced, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	enhanced.Close()

	// Mostly dark means light text on a dark background
	white := gocv.CountNonZero(binary)
	if float64(white) < 0.5*float64(binary.Rows()*binary.Cols()) {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}
