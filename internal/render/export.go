package render

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"survey-markup/internal/annotation"
	"survey-markup/internal/background"
)

// ExportOriginal encodes the photograph without any annotations, for
// side-by-side comparison exports.
func (r *Renderer) ExportOriginal(ctx context.Context, bg *background.Background, w io.Writer, opts Options) error {
	return r.Flatten(ctx, annotation.NewDocument(bg.Ref), bg, w, opts)
}

// SuggestedFilename derives an export filename from an image reference.
func SuggestedFilename(imageRef, format string) string {
	ext := "png"
	if format == "jpeg" || format == "jpg" {
		ext = "jpg"
	}
	base := strings.TrimSuffix(filepath.Base(imageRef), filepath.Ext(imageRef))
	if base == "" || base == "." || base == "/" {
		return "annotated." + ext
	}
	return base + "_annotated." + ext
}
