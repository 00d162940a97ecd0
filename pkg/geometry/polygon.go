package geometry

import "math"

// DistanceToSegment returns the shortest distance from point p to the line
// segment a-b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	// Project p onto the segment, clamped to [0, 1]
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}

// DistanceToPolyline returns the shortest distance from point p to any
// segment of the open polyline through points. Returns +Inf for fewer than
// two points.
func DistanceToPolyline(p Point2D, points []Point2D) float64 {
	if len(points) < 2 {
		return math.Inf(1)
	}
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		if d := DistanceToSegment(p, points[i-1], points[i]); d < best {
			best = d
		}
	}
	return best
}

// DistanceToPolygonEdge returns the shortest distance from point p to the
// closed boundary of the polygon.
func DistanceToPolygonEdge(p Point2D, polygon []Point2D) float64 {
	if len(polygon) < 2 {
		return math.Inf(1)
	}
	best := DistanceToPolyline(p, polygon)
	// Closing edge
	if d := DistanceToSegment(p, polygon[len(polygon)-1], polygon[0]); d < best {
		best = d
	}
	return best
}

// PointInPolygon returns true if point p lies inside the polygon, using the
// even-odd ray casting rule.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		pi, pj := polygon[i], polygon[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) &&
			p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PolygonArea returns the absolute area of the polygon via the shoelace
// formula. Degenerate polygons (fewer than 3 vertices) have zero area.
func PolygonArea(polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	var sum float64
	j := len(polygon) - 1
	for i := 0; i < len(polygon); i++ {
		sum += (polygon[j].X + polygon[i].X) * (polygon[j].Y - polygon[i].Y)
		j = i
	}
	return math.Abs(sum) / 2
}
