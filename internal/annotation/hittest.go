package annotation

import (
	"survey-markup/pkg/geometry"
)

func pointAt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

// HitTest returns true if p falls within the shape's hit region. Open
// shapes are hit within half the stroke width plus tolerance of the stroke;
// closed shapes are hit anywhere inside, filled or not, so a click into a
// hollow rectangle still picks it.
func HitTest(s *Shape, p geometry.Point2D, tolerance float64) bool {
	tol := tolerance + s.Style.StrokeWidth/2
	if tol < tolerance {
		tol = tolerance
	}

	switch s.Kind {
	case KindDimension, KindArrow:
		return geometry.DistanceToSegment(p, s.Points[0], s.Points[1]) <= tol

	case KindCircle:
		return p.Distance(s.Points[0]) <= s.Radius()+tol

	case KindRectangle:
		r := geometry.RectFromCorners(s.Points[0], s.Points[1])
		return r.Inset(-tol).Contains(p)

	case KindPolygon:
		if geometry.PointInPolygon(p, s.Points) {
			return true
		}
		return geometry.DistanceToPolygonEdge(p, s.Points) <= tol

	case KindPolyline, KindFreehand:
		return geometry.DistanceToPolyline(p, s.Points) <= tol

	case KindText:
		return textBounds(s).Contains(p)
	}
	return false
}

// textBounds estimates the on-canvas box of a text shape from its font
// size. CJK glyphs advance roughly one em; Latin roughly half. The export
// renderer uses real shaped metrics, but for picking this estimate is
// plenty.
func textBounds(s *Shape) geometry.Rect {
	if len(s.Points) == 0 {
		return geometry.Rect{}
	}
	var width float64
	for _, r := range s.Text {
		if r < 0x2E80 { // before the CJK blocks
			width += s.FontSize * 0.55
		} else {
			width += s.FontSize
		}
	}
	if width < s.FontSize {
		width = s.FontSize
	}
	anchor := s.Points[0]
	return geometry.NewRect(anchor.X, anchor.Y, width, s.FontSize*1.35)
}
