package images

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the raster formats used by content images.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Sizer reports the pixel dimensions of an image file.
//
// Enrichment code depends on this interface so tests can substitute a fake
// without fixture images on disk.
type Sizer interface {
	Size(path string) (width, height int, err error)
}

var (
	// ErrMeasureFailed indicates an image could not be opened or decoded.
	ErrMeasureFailed = errors.New("image measurement failed")

	// ErrNoDimensions indicates an SVG carried neither usable width/height
	// attributes nor a viewBox.
	ErrNoDimensions = errors.New("svg has no usable dimensions")
)

// FileSizer measures images on the local filesystem. Raster formats go
// through image.DecodeConfig; SVG is special-cased because the standard
// decoders do not handle vector images.
type FileSizer struct{}

// Size returns the pixel dimensions of the image at path.
func (FileSizer) Size(path string) (int, int, error) {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return svgSize(path)
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrMeasureFailed, path, err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrMeasureFailed, path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// IsVector reports whether the path names a vector image. Tag explainer
// sibling files are only looked up for vector tag images.
func IsVector(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".svg")
}
