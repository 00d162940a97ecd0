package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-markup/internal/annotation"
	"survey-markup/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

// drag simulates a press, travel, release sequence.
func drag(e *Editor, from, to geometry.Point2D) {
	e.PointerDown(from)
	e.PointerMove(to)
	e.PointerUp(to)
}

func TestRectangleDragCreatesOneShape(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)

	drag(e, pt(10, 10), pt(60, 40))

	require.Equal(t, 1, e.Document().Len())
	s := e.Document().Shapes()[0]
	assert.Equal(t, annotation.KindRectangle, s.Kind)
	assert.Equal(t, pt(10, 10), s.Points[0])
	assert.Equal(t, pt(60, 40), s.Points[1])
	assert.True(t, e.Dirty())
}

func TestZeroLengthDragCommitsNothing(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolCircle)

	drag(e, pt(30, 30), pt(31, 31)) // below MinDragPx

	assert.Equal(t, 0, e.Document().Len())
	assert.False(t, e.Dirty())
	assert.False(t, e.CanUndo(), "a discarded gesture leaves no history entry")
}

func TestDimensionDrag(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolDimension)

	drag(e, pt(0, 0), pt(100, 0))

	require.Equal(t, 1, e.Document().Len())
	assert.Equal(t, annotation.KindDimension, e.Document().Shapes()[0].Kind)
}

func TestPolygonDoubleClickCommit(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolPolygon)

	e.PointerDown(pt(0, 0))
	e.PointerUp(pt(0, 0))
	e.PointerDown(pt(50, 0))
	e.PointerUp(pt(50, 0))
	e.PointerDown(pt(50, 50))
	e.PointerUp(pt(50, 50))
	e.DoubleClick(pt(50, 50))

	require.Equal(t, 1, e.Document().Len())
	s := e.Document().Shapes()[0]
	assert.Equal(t, annotation.KindPolygon, s.Kind)
	assert.Len(t, s.Points, 3, "the double-click press does not add a duplicate vertex")
}

func TestPolygonEscapeCancels(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolPolygon)

	e.PointerDown(pt(0, 0))
	e.PointerDown(pt(50, 0))
	e.Escape()
	e.DoubleClick(pt(50, 50))

	assert.Equal(t, 0, e.Document().Len())
	assert.False(t, e.GestureActive())
}

func TestPolygonTooFewVerticesDiscarded(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolPolygon)

	e.PointerDown(pt(0, 0))
	e.PointerDown(pt(50, 0))
	e.DoubleClick(pt(50, 0))

	assert.Equal(t, 0, e.Document().Len())
}

func TestPolylineCommit(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolPolyline)

	e.PointerDown(pt(0, 0))
	e.PointerDown(pt(40, 10))
	e.PointerDown(pt(80, 0))
	e.DoubleClick(pt(80, 0))

	require.Equal(t, 1, e.Document().Len())
	assert.Equal(t, annotation.KindPolyline, e.Document().Shapes()[0].Kind)
}

func TestToolSwitchCancelsGesture(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolPolygon)

	e.PointerDown(pt(0, 0))
	e.PointerDown(pt(50, 0))
	e.PointerDown(pt(50, 50))
	require.True(t, e.GestureActive())

	e.SelectTool(ToolArrow)
	assert.False(t, e.GestureActive())
	assert.Equal(t, 0, e.Document().Len())
}

func TestFreehandSmoothedCommit(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolFreehand)

	e.PointerDown(pt(0, 0))
	for x := 1.0; x <= 60; x++ {
		e.PointerMove(pt(x, 10*sin01(x)))
	}
	e.PointerUp(pt(60, 0))

	require.Equal(t, 1, e.Document().Len())
	s := e.Document().Shapes()[0]
	assert.Equal(t, annotation.KindFreehand, s.Kind)
	assert.GreaterOrEqual(t, len(s.Points), 2)
}

// sin01 gives mild vertical jitter without pulling in math in every test.
func sin01(x float64) float64 {
	if int(x)%2 == 0 {
		return 1
	}
	return 0
}

func TestTextCommitAndCancel(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolText)

	var prompted bool
	e.On(EventTextPrompt, func(data interface{}) { prompted = true })

	e.PointerDown(pt(20, 30))
	require.True(t, prompted)
	e.CommitText("基礎コンクリート")

	require.Equal(t, 1, e.Document().Len())
	s := e.Document().Shapes()[0]
	assert.Equal(t, annotation.KindText, s.Kind)
	assert.Equal(t, "基礎コンクリート", s.Text)
	assert.Equal(t, DefaultFontSize, s.FontSize)

	e.PointerDown(pt(40, 40))
	e.CommitText("   ")
	assert.Equal(t, 1, e.Document().Len(), "blank content commits nothing")

	e.PointerDown(pt(50, 50))
	e.CancelText()
	assert.Equal(t, 1, e.Document().Len())
}

func TestSelectClickAndDragMove(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))
	id := e.Document().Shapes()[0].ID

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(30, 25)) // inside the rectangle
	assert.Equal(t, id, e.SelectedID())

	e.PointerMove(pt(50, 25))
	e.PointerUp(pt(50, 25))

	s := e.Document().ByID(id)
	assert.Equal(t, pt(30, 10), s.Points[0], "drag translates by the pointer delta")
	assert.Equal(t, pt(80, 40), s.Points[1])

	require.True(t, e.Undo())
	assert.Equal(t, pt(10, 10), e.Document().ByID(id).Points[0])
}

func TestSelectMissClearsSelection(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(30, 25))
	require.NotEmpty(t, e.SelectedID())

	e.PointerDown(pt(300, 300))
	e.PointerUp(pt(300, 300))
	assert.Empty(t, e.SelectedID())
}

func TestSelectClickWithoutDragIsNotAnEdit(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))
	e.Undo()
	drag(e, pt(10, 10), pt(60, 40))

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(30, 25))
	e.PointerUp(pt(30, 25))

	// One create is undoable; the pick added nothing.
	require.True(t, e.Undo())
	assert.False(t, e.CanUndo())
}

func TestSelectDragReturningToAnchorIsNotAnEdit(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(30, 25))
	e.PointerMove(pt(50, 25)) // wanders past the drag threshold...
	e.PointerMove(pt(31, 25))
	e.PointerUp(pt(31, 25)) // ...but releases back at the press point

	s := e.Document().Shapes()[0]
	assert.Equal(t, pt(10, 10), s.Points[0], "zero net travel moves nothing")

	// Only the create is undoable; no zero-delta update was recorded.
	require.True(t, e.Undo())
	assert.False(t, e.CanUndo())
}

func TestDeleteSelectedUndoable(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolArrow)
	drag(e, pt(0, 0), pt(100, 100))

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(50, 50))
	e.PointerUp(pt(50, 50))
	require.NotEmpty(t, e.SelectedID())

	e.DeleteSelected()
	assert.Equal(t, 0, e.Document().Len())
	assert.Empty(t, e.SelectedID())

	require.True(t, e.Undo())
	assert.Equal(t, 1, e.Document().Len())
}

func TestDrawUndoRedoCounts(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(0, 0), pt(20, 20))
	drag(e, pt(30, 0), pt(50, 20))
	drag(e, pt(60, 0), pt(80, 20))
	require.Equal(t, 3, e.Document().Len())

	e.Undo()
	e.Undo()
	assert.Equal(t, 1, e.Document().Len())
	e.Redo()
	assert.Equal(t, 2, e.Document().Len())
}

func TestSetStyleUpdatesSelectedShape(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))
	id := e.Document().Shapes()[0].ID

	e.SelectTool(ToolSelect)
	e.PointerDown(pt(30, 25))
	e.PointerUp(pt(30, 25))

	style := e.DefaultStyle()
	style.StrokeWidth = 8
	e.SetStyle(style)

	assert.Equal(t, 8.0, e.Document().ByID(id).Style.StrokeWidth)
	require.True(t, e.Undo())
	assert.Equal(t, 3.0, e.Document().ByID(id).Style.StrokeWidth)
}

func TestPreviewDuringDrag(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolCircle)

	e.PointerDown(pt(50, 50))
	assert.Nil(t, e.Preview(), "no preview before the drag threshold")

	e.PointerMove(pt(80, 50))
	p := e.Preview()
	require.NotNil(t, p)
	assert.Equal(t, annotation.KindCircle, p.Kind)
	assert.Equal(t, 0, e.Document().Len(), "preview is not committed")

	e.PointerUp(pt(80, 50))
	assert.Nil(t, e.Preview())
	assert.Equal(t, 1, e.Document().Len())
}

type fakeSaver struct {
	calls int
	err   error
	saved *annotation.Document
}

func (f *fakeSaver) SaveAnnotations(_ context.Context, doc *annotation.Document) error {
	f.calls++
	f.saved = doc
	return f.err
}

func TestSaveClearsDirty(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))
	require.True(t, e.Dirty())

	saver := &fakeSaver{}
	require.NoError(t, e.Save(context.Background(), saver))
	assert.Equal(t, 1, saver.calls)
	assert.False(t, e.Dirty())
	assert.False(t, e.Undo(), "saved state is the new baseline")

	// The snapshot is decoupled from the live document.
	drag(e, pt(100, 10), pt(150, 40))
	assert.Equal(t, 1, saver.saved.Len())
}

func TestSaveFailureKeepsDirty(t *testing.T) {
	e := New(annotation.NewDocument("img"))
	e.SelectTool(ToolRectangle)
	drag(e, pt(10, 10), pt(60, 40))

	saver := &fakeSaver{err: errors.New("boom")}
	assert.Error(t, e.Save(context.Background(), saver))
	assert.True(t, e.Dirty())
	assert.True(t, e.CanUndo())
}

func TestEventEmission(t *testing.T) {
	e := New(annotation.NewDocument("img"))

	var toolEvents, docEvents int
	e.On(EventToolChanged, func(data interface{}) {
		toolEvents++
		assert.Equal(t, ToolRectangle, data.(Tool))
	})
	e.On(EventDocumentChanged, func(data interface{}) { docEvents++ })

	e.SelectTool(ToolRectangle)
	e.SelectTool(ToolRectangle) // no-op
	assert.Equal(t, 1, toolEvents)

	drag(e, pt(10, 10), pt(60, 40))
	e.Undo()
	e.Redo()
	assert.Equal(t, 3, docEvents)
}
