package annotation

import (
	"encoding/json"
	"fmt"

	"survey-markup/pkg/colorutil"
	"survey-markup/pkg/geometry"
)

// FormatVersion is the current annotation payload version.
const FormatVersion = 1

type documentJSON struct {
	Version  int         `json:"version"`
	ImageRef string      `json:"image_ref"`
	Shapes   []shapeJSON `json:"shapes"`
}

type shapeJSON struct {
	ID          string             `json:"id"`
	Kind        string             `json:"kind"`
	Points      []geometry.Point2D `json:"points"`
	Text        string             `json:"text,omitempty"`
	FontSize    float64            `json:"font_size,omitempty"`
	Stroke      string             `json:"stroke"`
	StrokeWidth float64            `json:"stroke_width"`
	Fill        string             `json:"fill,omitempty"`
	ZOrder      int                `json:"z_order"`
	CreatedAt   int64              `json:"created_at"`
	UpdatedAt   int64              `json:"updated_at"`
}

// MarshalDocument serializes the document's shape collection for the
// annotation-storage service. The background image is referenced, not
// embedded.
func MarshalDocument(d *Document) ([]byte, error) {
	out := documentJSON{
		Version:  FormatVersion,
		ImageRef: d.ImageRef,
		Shapes:   make([]shapeJSON, 0, d.Len()),
	}
	for _, s := range d.Shapes() {
		sj := shapeJSON{
			ID:          s.ID,
			Kind:        s.Kind.String(),
			Points:      s.Points,
			Text:        s.Text,
			FontSize:    s.FontSize,
			Stroke:      colorutil.FormatHex(s.Style.Stroke),
			StrokeWidth: s.Style.StrokeWidth,
			ZOrder:      s.ZOrder,
			CreatedAt:   s.CreatedAt,
			UpdatedAt:   s.UpdatedAt,
		}
		if s.Style.Fill.A > 0 {
			sj.Fill = colorutil.FormatHex(s.Style.Fill)
		}
		out.Shapes = append(out.Shapes, sj)
	}
	return json.MarshalIndent(out, "", "  ")
}

// UnmarshalDocument reconstructs a document from stored annotation JSON.
// Records whose kind or geometry arity does not match are rejected rather
// than coerced, so schema drift surfaces as a load failure instead of
// silently dropped shapes.
func UnmarshalDocument(data []byte) (*Document, error) {
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}
	if in.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported annotation version %d", in.Version)
	}

	doc := NewDocument(in.ImageRef)
	for i, sj := range in.Shapes {
		kind, ok := KindFromString(sj.Kind)
		if !ok {
			return nil, fmt.Errorf("shape %d: unknown kind %q", i, sj.Kind)
		}

		stroke, err := colorutil.ParseHex(sj.Stroke)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		style := Style{Stroke: stroke, StrokeWidth: sj.StrokeWidth}
		if sj.Fill != "" {
			fill, err := colorutil.ParseHex(sj.Fill)
			if err != nil {
				return nil, fmt.Errorf("shape %d: %w", i, err)
			}
			style.Fill = fill
		}

		s := &Shape{
			ID:        sj.ID,
			Kind:      kind,
			Points:    sj.Points,
			Text:      sj.Text,
			FontSize:  sj.FontSize,
			Style:     style,
			ZOrder:    sj.ZOrder,
			CreatedAt: sj.CreatedAt,
			UpdatedAt: sj.UpdatedAt,
		}
		if err := doc.Add(s); err != nil {
			return nil, fmt.Errorf("shape %d (%s): %w", i, sj.ID, err)
		}
		if s.UpdatedAt > doc.clock {
			doc.clock = s.UpdatedAt
		}
		if s.CreatedAt > doc.clock {
			doc.clock = s.CreatedAt
		}
	}
	return doc, nil
}
