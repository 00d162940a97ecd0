package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-markup/pkg/geometry"
)

func pts(coords ...float64) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, geometry.NewPoint2D(coords[i], coords[i+1]))
	}
	return out
}

func validShape(kind Kind) *Shape {
	s := &Shape{ID: NewID(), Kind: kind, Style: DefaultStyle()}
	switch kind {
	case KindDimension, KindArrow, KindCircle:
		s.Points = pts(0, 0, 50, 0)
	case KindRectangle:
		s.Points = pts(10, 10, 60, 40)
	case KindPolygon:
		s.Points = pts(0, 0, 40, 0, 20, 30)
	case KindPolyline, KindFreehand:
		s.Points = pts(0, 0, 10, 10, 20, 5)
	case KindText:
		s.Points = pts(5, 5)
		s.Text = "memo"
		s.FontSize = 18
	}
	return s
}

func TestValidateAcceptsEveryKind(t *testing.T) {
	for kind := range kindNames {
		assert.NoError(t, Validate(validShape(kind)), "kind %s", kind)
	}
}

func TestValidateRejectsArityMismatch(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Shape)
		kind   Kind
	}{
		{"arrow one endpoint", func(s *Shape) { s.Points = s.Points[:1] }, KindArrow},
		{"dimension zero length", func(s *Shape) { s.Points[1] = s.Points[0] }, KindDimension},
		{"circle zero radius", func(s *Shape) { s.Points[1] = s.Points[0] }, KindCircle},
		{"rectangle zero area", func(s *Shape) { s.Points[1].Y = s.Points[0].Y }, KindRectangle},
		{"polygon two vertices", func(s *Shape) { s.Points = s.Points[:2] }, KindPolygon},
		{"polyline one vertex", func(s *Shape) { s.Points = s.Points[:1] }, KindPolyline},
		{"freehand one sample", func(s *Shape) { s.Points = s.Points[:1] }, KindFreehand},
		{"text empty string", func(s *Shape) { s.Text = "" }, KindText},
		{"text two anchors", func(s *Shape) { s.Points = pts(0, 0, 1, 1) }, KindText},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validShape(tc.kind)
			tc.mutate(s)
			err := Validate(s)
			require.Error(t, err)

			var ge *GeometryError
			require.ErrorAs(t, err, &ge)
			assert.Equal(t, tc.kind, ge.Kind)
		})
	}
}

func TestValidateRejectsMissingID(t *testing.T) {
	s := validShape(KindArrow)
	s.ID = ""
	assert.Error(t, Validate(s))
}

func TestCloneIsDeep(t *testing.T) {
	s := validShape(KindPolyline)
	c := s.Clone()
	c.Points[0].X = 999

	assert.Equal(t, 0.0, s.Points[0].X)
	assert.Equal(t, s.ID, c.ID)
}

func TestTranslate(t *testing.T) {
	s := validShape(KindRectangle)
	moved := s.Translate(geometry.NewPoint2D(5, -5))

	assert.Equal(t, pts(15, 5, 65, 35), moved.Points)
	assert.Equal(t, pts(10, 10, 60, 40), s.Points, "original untouched")
}

func TestCircleBounds(t *testing.T) {
	s := &Shape{ID: NewID(), Kind: KindCircle, Points: pts(50, 50, 60, 50), Style: DefaultStyle()}
	b := s.Bounds()
	assert.Equal(t, geometry.NewRect(40, 40, 20, 20), b)
	assert.InDelta(t, 10, s.Radius(), 1e-9)
}
