package editor

import (
	"strings"

	"survey-markup/internal/annotation"
	"survey-markup/internal/history"
	"survey-markup/pkg/geometry"
)

// FreehandSpacing is the resample interval, in image pixels, for smoothed
// freehand strokes.
const FreehandSpacing = 4.0

type gesturePhase int

const (
	phaseIdle gesturePhase = iota
	phaseDrag     // press-drag tools and select-tool shape moves
	phaseVertices // polygon and polyline vertex placement
	phaseFreehand // raw stroke capture
	phaseText     // anchor placed, waiting for label content
)

// gestureState tracks one in-progress gesture. All coordinates are image
// pixels; the canvas converts from screen space before calling the editor.
type gestureState struct {
	phase    gesturePhase
	anchor   geometry.Point2D
	current  geometry.Point2D
	moved    bool
	vertices []geometry.Point2D

	// select-tool drag: the shape's state at press time
	dragPrior *annotation.Shape
}

func (e *Editor) resetGesture() {
	e.gesture = gestureState{}
}

// cancelGesture discards any gesture in progress without committing.
func (e *Editor) cancelGesture() {
	if e.gesture.phase == phaseIdle {
		return
	}
	e.resetGesture()
	e.Emit(EventGestureChanged, nil)
}

// GestureActive reports whether a gesture is in progress.
func (e *Editor) GestureActive() bool { return e.gesture.phase != phaseIdle }

// PointerDown begins or extends a gesture at the given image point.
func (e *Editor) PointerDown(p geometry.Point2D) {
	switch e.tool {
	case ToolSelect:
		hit := e.doc.TopmostAt(p.X, p.Y, HitTolerance)
		if hit == nil {
			e.clearSelection()
			return
		}
		e.setSelection(hit.ID)
		e.gesture = gestureState{
			phase:     phaseDrag,
			anchor:    p,
			current:   p,
			dragPrior: hit.Clone(),
		}

	case ToolDimension, ToolArrow, ToolCircle, ToolRectangle:
		e.gesture = gestureState{phase: phaseDrag, anchor: p, current: p}

	case ToolPolygon, ToolPolyline:
		if e.gesture.phase != phaseVertices {
			e.gesture = gestureState{
				phase:    phaseVertices,
				vertices: []geometry.Point2D{p},
				current:  p,
			}
			e.Emit(EventGestureChanged, nil)
			return
		}
		// The second press of a double-click lands on the last vertex;
		// skip near-duplicates so commit sees clean geometry.
		last := e.gesture.vertices[len(e.gesture.vertices)-1]
		if last.Distance(p) >= MinDragPx {
			e.gesture.vertices = append(e.gesture.vertices, p)
		}
		e.gesture.current = p
		e.Emit(EventGestureChanged, nil)

	case ToolFreehand:
		e.gesture = gestureState{
			phase:    phaseFreehand,
			anchor:   p,
			current:  p,
			vertices: []geometry.Point2D{p},
		}

	case ToolText:
		e.gesture = gestureState{phase: phaseText, anchor: p}
		e.Emit(EventTextPrompt, p)
	}
}

// PointerMove updates the gesture preview as the pointer moves.
func (e *Editor) PointerMove(p geometry.Point2D) {
	switch e.gesture.phase {
	case phaseDrag:
		e.gesture.current = p
		if !e.gesture.moved && e.gesture.anchor.Distance(p) >= MinDragPx {
			e.gesture.moved = true
		}
		e.Emit(EventGestureChanged, nil)

	case phaseVertices:
		e.gesture.current = p
		e.Emit(EventGestureChanged, nil)

	case phaseFreehand:
		e.gesture.vertices = append(e.gesture.vertices, p)
		e.gesture.current = p
		e.Emit(EventGestureChanged, nil)
	}
}

// PointerUp completes a press-drag or freehand gesture at the given point.
func (e *Editor) PointerUp(p geometry.Point2D) {
	switch e.gesture.phase {
	case phaseDrag:
		e.finishDrag(p)
	case phaseFreehand:
		e.finishFreehand(p)
	}
}

func (e *Editor) finishDrag(p geometry.Point2D) {
	g := e.gesture
	e.resetGesture()
	defer e.Emit(EventGestureChanged, nil)

	if g.anchor.Distance(p) < MinDragPx {
		// A release near the press point draws nothing and moves nothing,
		// even when the pointer wandered in between; for the select tool
		// the press was just a pick.
		return
	}

	if e.tool == ToolSelect {
		if g.dragPrior == nil || e.doc.ByID(g.dragPrior.ID) == nil {
			return
		}
		next := g.dragPrior.Translate(p.Sub(g.anchor))
		next.UpdatedAt = e.doc.NextSeq()
		if err := e.hist.Execute(history.NewUpdate(g.dragPrior, next)); err != nil {
			return
		}
		return
	}

	s := e.newShape(e.tool.shapeKind())
	s.Points = []geometry.Point2D{g.anchor, p}
	e.commit(s)
}

func (e *Editor) finishFreehand(p geometry.Point2D) {
	g := e.gesture
	e.resetGesture()
	defer e.Emit(EventGestureChanged, nil)

	points := g.vertices
	if len(points) == 0 || points[len(points)-1].Distance(p) > 0 {
		points = append(points, p)
	}
	smoothed := geometry.SmoothPath(points, FreehandSpacing)

	s := e.newShape(annotation.KindFreehand)
	s.Points = smoothed
	e.commit(s)
}

// DoubleClick commits a polygon or polyline gesture in progress.
func (e *Editor) DoubleClick(p geometry.Point2D) {
	if e.gesture.phase != phaseVertices {
		return
	}
	g := e.gesture
	e.resetGesture()
	defer e.Emit(EventGestureChanged, nil)

	s := e.newShape(e.tool.shapeKind())
	s.Points = g.vertices
	e.commit(s)
}

// Escape cancels the gesture in progress, or clears the selection when no
// gesture is active.
func (e *Editor) Escape() {
	if e.gesture.phase != phaseIdle {
		e.cancelGesture()
		return
	}
	e.clearSelection()
}

// CommitText creates a text label at the pending anchor. Empty or
// whitespace-only content cancels the gesture instead.
func (e *Editor) CommitText(content string) {
	if e.gesture.phase != phaseText {
		return
	}
	anchor := e.gesture.anchor
	e.resetGesture()
	defer e.Emit(EventGestureChanged, nil)

	content = strings.TrimSpace(content)
	if content == "" {
		return
	}

	s := e.newShape(annotation.KindText)
	s.Points = []geometry.Point2D{anchor}
	s.Text = content
	s.FontSize = e.fontSize
	e.commit(s)
}

// CancelText discards a pending text anchor.
func (e *Editor) CancelText() {
	if e.gesture.phase == phaseText {
		e.cancelGesture()
	}
}

// Preview returns a transient shape representing the gesture in progress,
// for the canvas to draw on top of the committed document. It returns nil
// when there is nothing to preview.
func (e *Editor) Preview() *annotation.Shape {
	g := e.gesture
	switch g.phase {
	case phaseDrag:
		if !g.moved {
			return nil
		}
		if e.tool == ToolSelect {
			if g.dragPrior == nil {
				return nil
			}
			return g.dragPrior.Translate(g.current.Sub(g.anchor))
		}
		return &annotation.Shape{
			Kind:   e.tool.shapeKind(),
			Points: []geometry.Point2D{g.anchor, g.current},
			Style:  e.defaultStyle,
		}

	case phaseVertices:
		points := append(append([]geometry.Point2D{}, g.vertices...), g.current)
		return &annotation.Shape{
			Kind:   e.tool.shapeKind(),
			Points: points,
			Style:  e.defaultStyle,
		}

	case phaseFreehand:
		return &annotation.Shape{
			Kind:   annotation.KindFreehand,
			Points: append([]geometry.Point2D{}, g.vertices...),
			Style:  e.defaultStyle,
		}
	}
	return nil
}
