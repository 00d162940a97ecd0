// Package render flattens an annotation document over its photograph into a
// raster image. The same drawing code backs the on-screen canvas and the
// export pipeline, so what the user sees is what the export contains.
package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"

	"survey-markup/internal/annotation"
	"survey-markup/internal/background"
	"survey-markup/pkg/geometry"
)

// DimensionLabelSize is the pixel size of dimension length labels.
const DimensionLabelSize = 14.0

// dimensionTickLen is the half-length of the perpendicular end ticks on a
// dimension line, in image pixels.
const dimensionTickLen = 6.0

var selectionColor = color.RGBA{R: 51, G: 153, B: 255, A: 255}

// Options controls the export encoding.
type Options struct {
	Format   string  // "png" or "jpeg"
	Quality  int     // JPEG quality, 1..100
	Scale    float64 // output pixels per image pixel
	FontPath string  // explicit font file, empty for system search
}

// DefaultOptions returns lossless PNG at native resolution.
func DefaultOptions() Options {
	return Options{Format: "png", Quality: 90, Scale: 1}
}

// RenderError reports an export that could not be produced.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render failed: %s: %v", e.Reason, e.Err)
	}
	return "render failed: " + e.Reason
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer draws annotation shapes. It is safe for concurrent use; font
// sources are cached process-wide.
type Renderer struct {
	fontPath string
}

// NewRenderer creates a renderer using the given font file, or the system
// font search when fontPath is empty.
func NewRenderer(fontPath string) *Renderer {
	return &Renderer{fontPath: fontPath}
}

// Flatten draws the document over its photograph and encodes the result.
// The document and background must not be mutated during the call; pass
// snapshots when exporting from a live editor.
func (r *Renderer) Flatten(ctx context.Context, doc *annotation.Document, bg *background.Background, w io.Writer, opts Options) error {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	switch opts.Format {
	case "", "png", "jpeg", "jpg":
	default:
		return &RenderError{Reason: fmt.Sprintf("unsupported format %q", opts.Format)}
	}

	img, err := r.Compose(ctx, doc, bg, scale, opts.FontPath)
	if err != nil {
		return err
	}

	dc := gg.NewContextForImage(img)
	switch opts.Format {
	case "jpeg", "jpg":
		quality := opts.Quality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		if err := dc.EncodeJPEG(w, quality); err != nil {
			return &RenderError{Reason: "jpeg encoding", Err: err}
		}
	default:
		if err := dc.EncodePNG(w); err != nil {
			return &RenderError{Reason: "png encoding", Err: err}
		}
	}
	return nil
}

// Compose draws the document over its photograph at the given scale and
// returns the raster. The canvas widget uses this directly.
func (r *Renderer) Compose(ctx context.Context, doc *annotation.Document, bg *background.Background, scale float64, fontPath string) (image.Image, error) {
	if bg == nil || bg.Image == nil {
		return nil, &RenderError{Reason: "no background image"}
	}
	outW := int(math.Ceil(float64(bg.Width()) * scale))
	outH := int(math.Ceil(float64(bg.Height()) * scale))
	if outW < 1 || outH < 1 {
		return nil, &RenderError{Reason: "output size is empty"}
	}

	dc := gg.NewContext(outW, outH)
	dc.Scale(scale, scale)
	dc.DrawImage(gg.ImageBufFromImage(bg.Image), 0, 0)

	fonts := loadFontSet(fontPath)
	for _, s := range doc.Shapes() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := drawShape(dc, s, bg.DPI, scale, fonts); err != nil {
			return nil, &RenderError{Reason: "drawing " + s.Kind.String(), Err: err}
		}
	}
	return dc.Image(), nil
}

// DrawShape draws a single shape onto an existing context whose matrix is
// already scaled. Used by the canvas for gesture previews.
func (r *Renderer) DrawShape(dc *gg.Context, s *annotation.Shape, dpi, scale float64) error {
	return drawShape(dc, s, dpi, scale, loadFontSet(r.fontPath))
}

// DrawSelection draws a dashed box around the shape's bounds.
func (r *Renderer) DrawSelection(dc *gg.Context, s *annotation.Shape, scale float64) error {
	b := s.Bounds().Inset(-4)
	dc.SetColor(selectionColor)
	dc.SetLineWidth(1.5 * scale)
	dc.SetDash(6*scale, 4*scale)
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	err := dc.Stroke()
	dc.SetDash()
	return err
}

func drawShape(dc *gg.Context, s *annotation.Shape, dpi, scale float64, fonts *fontSet) error {
	if len(s.Points) == 0 {
		return nil
	}
	dc.SetColor(s.Style.Stroke)
	// Path points pass through the matrix but stroke width does not, so it
	// scales explicitly.
	dc.SetLineWidth(s.Style.StrokeWidth * scale)

	switch s.Kind {
	case annotation.KindDimension:
		return drawDimension(dc, s, dpi, scale, fonts)
	case annotation.KindArrow:
		return drawArrow(dc, s)
	case annotation.KindCircle:
		if len(s.Points) < 2 {
			return nil
		}
		c := s.Points[0]
		dc.DrawCircle(c.X, c.Y, s.Radius())
		return fillAndStroke(dc, s)
	case annotation.KindRectangle:
		if len(s.Points) < 2 {
			return nil
		}
		rect := geometry.RectFromCorners(s.Points[0], s.Points[1])
		dc.DrawRectangle(rect.X, rect.Y, rect.Width, rect.Height)
		return fillAndStroke(dc, s)
	case annotation.KindPolygon:
		tracePath(dc, s.Points)
		dc.ClosePath()
		return fillAndStroke(dc, s)
	case annotation.KindPolyline, annotation.KindFreehand:
		if len(s.Points) < 2 {
			return nil
		}
		tracePath(dc, s.Points)
		return dc.Stroke()
	case annotation.KindText:
		drawText(dc, s, scale, fonts)
		return nil
	}
	return nil
}

func tracePath(dc *gg.Context, points []geometry.Point2D) {
	dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

func fillAndStroke(dc *gg.Context, s *annotation.Shape) error {
	if s.Style.Fill.A > 0 {
		stroke := s.Style.Stroke
		dc.SetColor(s.Style.Fill)
		if err := dc.FillPreserve(); err != nil {
			return err
		}
		dc.SetColor(stroke)
	}
	return dc.Stroke()
}

func drawArrow(dc *gg.Context, s *annotation.Shape) error {
	if len(s.Points) < 2 {
		return nil
	}
	from, to := s.Points[0], s.Points[1]
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := dc.Stroke(); err != nil {
		return err
	}

	// Filled triangular head at the target end
	angle := math.Atan2(to.Y-from.Y, to.X-from.X)
	headLen := math.Max(10, s.Style.StrokeWidth*4)
	const spread = 0.45
	left := geometry.NewPoint2D(
		to.X-headLen*math.Cos(angle-spread),
		to.Y-headLen*math.Sin(angle-spread),
	)
	right := geometry.NewPoint2D(
		to.X-headLen*math.Cos(angle+spread),
		to.Y-headLen*math.Sin(angle+spread),
	)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(left.X, left.Y)
	dc.LineTo(right.X, right.Y)
	dc.ClosePath()
	return dc.Fill()
}

func drawDimension(dc *gg.Context, s *annotation.Shape, dpi, scale float64, fonts *fontSet) error {
	if len(s.Points) < 2 {
		return nil
	}
	from, to := s.Points[0], s.Points[1]
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	if err := dc.Stroke(); err != nil {
		return err
	}

	// Perpendicular ticks at both ends
	length := from.Distance(to)
	if length == 0 {
		return nil
	}
	nx := -(to.Y - from.Y) / length
	ny := (to.X - from.X) / length
	tick := dimensionTickLen + s.Style.StrokeWidth
	for _, end := range []geometry.Point2D{from, to} {
		dc.DrawLine(end.X-nx*tick, end.Y-ny*tick, end.X+nx*tick, end.Y+ny*tick)
	}
	if err := dc.Stroke(); err != nil {
		return err
	}

	// Centered length label, offset to the upper side of the line. Text
	// bypasses the matrix, so positions and the face size carry the scale.
	face := fonts.face(DimensionLabelSize * scale)
	if face == nil {
		return nil
	}
	label := dimensionLabel(length, dpi)
	if ny > 0 {
		nx, ny = -nx, -ny
	}
	offset := tick + 6
	mid := geometry.NewPoint2D((from.X+to.X)/2+nx*offset, (from.Y+to.Y)/2+ny*offset)

	dc.SetFont(face)
	w, _ := dc.MeasureString(label)
	m := face.Metrics()
	dc.DrawString(label, mid.X*scale-w/2, mid.Y*scale+(m.Ascent-m.Descent)/2)
	return nil
}

// dimensionLabel formats a pixel length, in centimeters when the photograph
// carries resolution metadata.
func dimensionLabel(lengthPx, dpi float64) string {
	if dpi > 0 {
		return fmt.Sprintf("%.1f cm", lengthPx/dpi*2.54)
	}
	return fmt.Sprintf("%.0f px", lengthPx)
}

func drawText(dc *gg.Context, s *annotation.Shape, scale float64, fonts *fontSet) {
	face := fonts.face(s.FontSize * scale)
	if face == nil {
		// Already warned at font load time; the shape is kept in the
		// document, it just cannot be rasterized.
		return
	}
	anchor := s.Points[0]
	dc.SetFont(face)
	m := face.Metrics()
	dc.DrawString(s.Text, anchor.X*scale, anchor.Y*scale+m.Ascent)
}
