// Package image provides image loading, cropping and compositing.
package image

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"atlas-editor/pkg/geometry"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Source is a loaded source image.
type Source struct {
	Path  string      // Original file path
	Image image.Image // Decoded pixels, loaded wholesale
}

// Load decodes the image at path, applying EXIF orientation.
func Load(path string) (*Source, error) {
	if !IsSupportedFormat(path) {
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return &Source{Path: path, Image: img}, nil
}

// Width returns the image width in pixels.
func (s *Source) Width() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Source) Height() int {
	if s == nil || s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Size returns the image dimensions.
func (s *Source) Size() geometry.Size {
	return geometry.NewSize(float64(s.Width()), float64(s.Height()))
}

// Crop copies r out of src. r is relative to the image origin; false is
// returned when r is empty or not fully inside the image.
func Crop(src image.Image, r geometry.RectInt) (*image.NRGBA, bool) {
	b := src.Bounds()
	if r.Empty() || !r.In(b.Dx(), b.Dy()) {
		return nil, false
	}
	return imaging.Crop(src, r.ImageRect().Add(b.Min)), true
}

// SavePNG writes img to path, choosing the encoder from the extension.
func SavePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
