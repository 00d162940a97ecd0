// Package annotation provides the shape model for survey photo markup:
// the annotation primitives, their validation rules, the document that
// holds them, and the serialized form stored by the annotation service.
package annotation

import (
	"fmt"
	"image/color"

	"github.com/google/uuid"

	"survey-markup/pkg/geometry"
)

// Kind identifies an annotation primitive.
type Kind int

const (
	KindDimension Kind = iota // two endpoints with end ticks and a length label
	KindArrow                 // two endpoints, head at the second
	KindCircle                // center plus a point on the rim
	KindRectangle             // two opposite corners
	KindPolygon               // closed ring, at least 3 vertices
	KindPolyline              // open chain, at least 2 vertices
	KindFreehand              // sampled pen stroke, at least 2 points
	KindText                  // single anchor point plus a string
)

// kindNames are the wire names used in stored annotation JSON.
var kindNames = map[Kind]string{
	KindDimension: "dimension",
	KindArrow:     "arrow",
	KindCircle:    "circle",
	KindRectangle: "rectangle",
	KindPolygon:   "polygon",
	KindPolyline:  "polyline",
	KindFreehand:  "freehand",
	KindText:      "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindFromString resolves a wire name back to a Kind.
func KindFromString(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Style holds the visual attributes of a shape. A fill with zero alpha
// means no fill.
type Style struct {
	Stroke      color.RGBA
	StrokeWidth float64
	Fill        color.RGBA
}

// DefaultStyle is the style applied to new shapes until the user changes it.
func DefaultStyle() Style {
	return Style{
		Stroke:      color.RGBA{R: 230, G: 40, B: 40, A: 255},
		StrokeWidth: 3,
	}
}

// Shape is a single committed annotation primitive.
//
// Points is interpreted per Kind: endpoints for dimension/arrow, center and
// rim point for circle, opposite corners for rectangle, vertex list for
// polygon/polyline, sampled stroke for freehand, and a single anchor for
// text. CreatedAt/UpdatedAt are logical sequence numbers issued by the
// owning Document, not wall-clock times.
type Shape struct {
	ID       string
	Kind     Kind
	Points   []geometry.Point2D
	Text     string
	FontSize float64
	Style    Style
	ZOrder   int

	CreatedAt int64
	UpdatedAt int64
}

// NewID returns a fresh shape identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	if s == nil {
		return nil
	}
	c := *s
	c.Points = make([]geometry.Point2D, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

// Translate returns a copy of the shape moved by delta.
func (s *Shape) Translate(delta geometry.Point2D) *Shape {
	c := s.Clone()
	c.Points = geometry.Translate(s.Points, delta)
	return c
}

// Bounds returns the axis-aligned bounding box of the shape's geometry.
// Text bounds are estimated from the font size, matching the hit-test box.
func (s *Shape) Bounds() geometry.Rect {
	if s.Kind == KindText {
		return textBounds(s)
	}
	if s.Kind == KindCircle && len(s.Points) == 2 {
		r := s.Points[0].Distance(s.Points[1])
		return geometry.NewRect(s.Points[0].X-r, s.Points[0].Y-r, 2*r, 2*r)
	}
	return geometry.BoundingBox(s.Points)
}

// Radius returns the circle radius; zero for other kinds.
func (s *Shape) Radius() float64 {
	if s.Kind != KindCircle || len(s.Points) != 2 {
		return 0
	}
	return s.Points[0].Distance(s.Points[1])
}

// GeometryError reports a shape whose geometry violates its kind's arity
// rules.
type GeometryError struct {
	Kind   Kind
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid %s geometry: %s", e.Kind, e.Reason)
}

const minSpan = 1e-6

// Validate checks that the shape's geometry matches its kind. Shapes are
// validated before they are committed to a document and again when loaded
// from storage.
func Validate(s *Shape) error {
	if s == nil {
		return &GeometryError{Reason: "nil shape"}
	}
	if s.ID == "" {
		return &GeometryError{Kind: s.Kind, Reason: "empty id"}
	}

	switch s.Kind {
	case KindDimension, KindArrow:
		if len(s.Points) != 2 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want 2 endpoints, got %d", len(s.Points))}
		}
		if s.Points[0].Distance(s.Points[1]) < minSpan {
			return &GeometryError{Kind: s.Kind, Reason: "zero length"}
		}
	case KindCircle:
		if len(s.Points) != 2 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want center and rim point, got %d points", len(s.Points))}
		}
		if s.Points[0].Distance(s.Points[1]) < minSpan {
			return &GeometryError{Kind: s.Kind, Reason: "zero radius"}
		}
	case KindRectangle:
		if len(s.Points) != 2 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want 2 corners, got %d points", len(s.Points))}
		}
		r := geometry.RectFromCorners(s.Points[0], s.Points[1])
		if r.Width < minSpan || r.Height < minSpan {
			return &GeometryError{Kind: s.Kind, Reason: "zero area"}
		}
	case KindPolygon:
		if len(s.Points) < 3 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want at least 3 vertices, got %d", len(s.Points))}
		}
	case KindPolyline:
		if len(s.Points) < 2 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want at least 2 vertices, got %d", len(s.Points))}
		}
	case KindFreehand:
		if len(s.Points) < 2 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want at least 2 samples, got %d", len(s.Points))}
		}
	case KindText:
		if len(s.Points) != 1 {
			return &GeometryError{Kind: s.Kind, Reason: fmt.Sprintf("want 1 anchor, got %d points", len(s.Points))}
		}
		if s.Text == "" {
			return &GeometryError{Kind: s.Kind, Reason: "empty text"}
		}
		if s.FontSize <= 0 {
			return &GeometryError{Kind: s.Kind, Reason: "non-positive font size"}
		}
	default:
		return &GeometryError{Kind: s.Kind, Reason: "unknown kind"}
	}

	if s.Style.StrokeWidth < 0 {
		return &GeometryError{Kind: s.Kind, Reason: "negative stroke width"}
	}
	return nil
}
