package geometry

import (
	"gonum.org/v1/gonum/interp"
)

// SmoothPath resamples a hand-drawn point sequence into an evenly spaced,
// smoothed polyline. The input is parameterized by cumulative chord length
// and X/Y are refit with Akima splines, which avoids the overshoot cubic
// splines produce on sharp pen reversals. spacing is the target distance
// between output samples in pixels.
//
// Inputs with fewer than five distinct points are returned as a de-duplicated
// copy, since a spline fit over that little data adds nothing.
func SmoothPath(points []Point2D, spacing float64) []Point2D {
	pts := dedupe(points)
	if len(pts) < 5 || spacing <= 0 {
		return pts
	}

	// Chord-length parameterization
	ts := make([]float64, len(pts))
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		if i > 0 {
			ts[i] = ts[i-1] + pts[i-1].Distance(p)
		}
		xs[i] = p.X
		ys[i] = p.Y
	}
	total := ts[len(ts)-1]
	if total <= 0 {
		return pts
	}

	var sx, sy interp.AkimaSpline
	if err := sx.Fit(ts, xs); err != nil {
		return pts
	}
	if err := sy.Fit(ts, ys); err != nil {
		return pts
	}

	n := int(total/spacing) + 1
	if n < 2 {
		n = 2
	}
	out := make([]Point2D, 0, n+1)
	step := total / float64(n)
	for i := 0; i <= n; i++ {
		t := float64(i) * step
		if t > total {
			t = total
		}
		out = append(out, Point2D{X: sx.Predict(t), Y: sy.Predict(t)})
	}
	return out
}

// dedupe removes consecutive duplicate points, which would otherwise produce
// a non-increasing parameterization.
func dedupe(points []Point2D) []Point2D {
	out := make([]Point2D, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
