// Package slide provides whole-slide image loading, calibration metadata,
// and pixel-region access.
package slide

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"

	"github.com/MaxencePelloux/THESIS-PANK/pkg/geometry"
)

// Slide represents a loaded whole-slide image.
type Slide struct {
	Path  string      // Original file path
	Image image.Image // Decoded pixel data

	// Native scanner magnification, or 0 if the metadata is absent.
	Magnification float64
}

// Load loads a slide image from the specified path. For TIFF-family files
// it also attempts to read the scanner magnification from the image
// description metadata; a slide without usable metadata loads with
// Magnification set to 0.
func Load(path string) (*Slide, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open slide: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode slide: %w", err)
	}

	s := &Slide{
		Path:  path,
		Image: img,
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" || ext == ".svs" {
		if mag, err := extractMagnification(path); err == nil {
			s.Magnification = mag
		}
	}

	return s, nil
}

// Name returns the slide's base name without extension, used in patch
// file names.
func (s *Slide) Name() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Width returns the image width in pixels.
func (s *Slide) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Slide) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// Extent returns the slide's pixel extent as a rectangle anchored at the
// origin.
func (s *Slide) Extent() geometry.RectInt {
	return geometry.RectInt{Width: s.Width(), Height: s.Height()}
}

// SupportedFormats returns the list of supported slide image formats.
func SupportedFormats() []string {
	return []string{".svs", ".tiff", ".tif", ".png", ".jpg", ".jpeg"}
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
