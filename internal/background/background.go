// Package background provides loading and decoding of the survey photograph
// an annotation document is drawn over.
package background

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Background is a decoded survey photograph. DPI is zero unless the source
// file carried resolution metadata (TIFF scans usually do); when present it
// lets dimension lines be labeled in real units.
type Background struct {
	Ref   string // externally-owned image reference (path or URL)
	Image image.Image
	DPI   float64
}

// Load reads and decodes a photograph from the local filesystem.
func Load(path string) (*Background, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	bg, err := Decode(file)
	if err != nil {
		return nil, err
	}
	bg.Ref = path

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".tiff" || ext == ".tif" {
		if dpi, err := extractTIFFDPI(path); err == nil {
			bg.DPI = dpi
		}
	}
	return bg, nil
}

// Decode decodes a photograph from a stream (PNG, JPEG, or TIFF).
func Decode(r io.Reader) (*Background, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return &Background{Image: img}, nil
}

// DecodeBytes decodes a photograph fetched from the image-serving endpoint.
func DecodeBytes(data []byte) (*Background, error) {
	return Decode(bytes.NewReader(data))
}

// Width returns the image width in pixels.
func (b *Background) Width() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (b *Background) Height() int {
	if b.Image == nil {
		return 0
	}
	return b.Image.Bounds().Dy()
}

// SupportedFormats returns the list of supported photo formats.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif"}
}

// IsSupportedFormat checks if the given path has a supported photo format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
