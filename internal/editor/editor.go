// Package editor is the tool and gesture controller. It translates pointer
// and key input in image coordinates into reversible commands against the
// annotation document, and owns the active tool, default style, and
// selection.
package editor

import (
	"context"
	"fmt"
	"log"

	"survey-markup/internal/annotation"
	"survey-markup/internal/history"
)

const (
	// MinDragPx is the minimum pointer travel, in image pixels, before a
	// press-drag gesture counts as a drag. Shorter movements commit nothing.
	MinDragPx = 3.0

	// HitTolerance is the pick radius, in image pixels, for selection
	// hit-testing on top of each shape's stroke width.
	HitTolerance = 6.0

	// DefaultFontSize is the initial size for text labels, in image pixels.
	DefaultFontSize = 18.0
)

// Saver persists an annotation document snapshot. Implemented by the
// annotation store client.
type Saver interface {
	SaveAnnotations(ctx context.Context, doc *annotation.Document) error
}

// Editor mediates between input handlers and the document. All methods must
// be called from the UI goroutine; snapshots handed to Save and Snapshot are
// deep copies and safe to use elsewhere.
type Editor struct {
	doc  *annotation.Document
	hist *history.History

	tool         Tool
	defaultStyle annotation.Style
	fontSize     float64
	selectedID   string

	gesture gestureState

	listeners map[EventType][]EventListener
}

// New creates an editor over the given document with the select tool active.
func New(doc *annotation.Document) *Editor {
	e := &Editor{
		doc:          doc,
		hist:         history.New(doc),
		tool:         ToolSelect,
		defaultStyle: annotation.DefaultStyle(),
		fontSize:     DefaultFontSize,
		listeners:    make(map[EventType][]EventListener),
	}
	e.hist.OnChange(func() {
		e.Emit(EventDocumentChanged, nil)
	})
	return e
}

// Document returns the live document. Callers must not mutate it directly;
// edits go through the editor so they are undoable.
func (e *Editor) Document() *annotation.Document { return e.doc }

// Snapshot returns a deep copy of the current document, for export and save.
func (e *Editor) Snapshot() *annotation.Document { return e.doc.Clone() }

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SelectTool switches the active tool, cancelling any gesture in progress.
func (e *Editor) SelectTool(t Tool) {
	if t == e.tool {
		return
	}
	e.cancelGesture()
	e.tool = t
	if t != ToolSelect {
		e.clearSelection()
	}
	e.Emit(EventToolChanged, t)
}

// DefaultStyle returns the style applied to newly created shapes.
func (e *Editor) DefaultStyle() annotation.Style { return e.defaultStyle }

// SetStyle updates the default style. If a shape is selected the change is
// also applied to it as an undoable edit.
func (e *Editor) SetStyle(s annotation.Style) {
	e.defaultStyle = s
	if sel := e.Selected(); sel != nil {
		prior := sel.Clone()
		next := sel.Clone()
		next.Style = s
		next.UpdatedAt = e.doc.NextSeq()
		if err := e.hist.Execute(history.NewUpdate(prior, next)); err != nil {
			log.Printf("editor: restyle failed: %v", err)
		}
	}
}

// FontSize returns the size used for new text labels.
func (e *Editor) FontSize() float64 { return e.fontSize }

// SetFontSize updates the size for new text labels. If a text shape is
// selected the change is also applied to it as an undoable edit.
func (e *Editor) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	e.fontSize = size
	if sel := e.Selected(); sel != nil && sel.Kind == annotation.KindText {
		prior := sel.Clone()
		next := sel.Clone()
		next.FontSize = size
		next.UpdatedAt = e.doc.NextSeq()
		if err := e.hist.Execute(history.NewUpdate(prior, next)); err != nil {
			log.Printf("editor: resize text failed: %v", err)
		}
	}
}

// Selected returns the selected shape, or nil.
func (e *Editor) Selected() *annotation.Shape {
	if e.selectedID == "" {
		return nil
	}
	return e.doc.ByID(e.selectedID)
}

// SelectedID returns the selected shape's ID, or "".
func (e *Editor) SelectedID() string { return e.selectedID }

func (e *Editor) setSelection(id string) {
	if id == e.selectedID {
		return
	}
	e.selectedID = id
	e.Emit(EventSelectionChanged, id)
}

func (e *Editor) clearSelection() { e.setSelection("") }

// DeleteSelected removes the selected shape as an undoable edit. It is a
// no-op when nothing is selected.
func (e *Editor) DeleteSelected() {
	sel := e.Selected()
	if sel == nil {
		return
	}
	e.clearSelection()
	if err := e.hist.Execute(history.NewDelete(sel)); err != nil {
		log.Printf("editor: delete failed: %v", err)
	}
}

// Undo reverts the most recent edit. Any gesture in progress is cancelled
// first so the preview cannot reference undone state.
func (e *Editor) Undo() bool {
	e.cancelGesture()
	e.validateSelection()
	return e.undoWith(e.hist.Undo)
}

// Redo re-applies the most recently undone edit.
func (e *Editor) Redo() bool {
	e.cancelGesture()
	return e.undoWith(e.hist.Redo)
}

func (e *Editor) undoWith(step func() bool) bool {
	ok := step()
	if ok {
		e.validateSelection()
	}
	return ok
}

// validateSelection drops the selection if its shape no longer exists.
func (e *Editor) validateSelection() {
	if e.selectedID != "" && e.doc.ByID(e.selectedID) == nil {
		e.clearSelection()
	}
}

// CanUndo reports whether an undo is available.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether a redo is available.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Dirty reports whether there are unsaved edits.
func (e *Editor) Dirty() bool { return e.hist.Dirty() }

// Save snapshots the document and hands it to the saver. On success the
// history is cleared: the saved state is the new baseline. The snapshot is
// immutable, so edits made while the request is in flight are unaffected.
func (e *Editor) Save(ctx context.Context, saver Saver) error {
	snapshot := e.Snapshot()
	if err := saver.SaveAnnotations(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save annotations: %w", err)
	}
	e.hist.Clear()
	return nil
}

// commit records the creation of a freshly drawn shape. Invalid geometry
// (degenerate drags, too few vertices) is discarded without an error dialog;
// the user simply sees nothing appear.
func (e *Editor) commit(s *annotation.Shape) {
	if err := annotation.Validate(s); err != nil {
		log.Printf("editor: discarding %s: %v", s.Kind, err)
		return
	}
	if err := e.hist.Execute(history.NewCreate(s)); err != nil {
		log.Printf("editor: create failed: %v", err)
	}
}

// newShape builds an unstamped shape for the active tool with the default
// style. Stamps are issued here, at commit construction time, so a redo
// re-applies identical content.
func (e *Editor) newShape(kind annotation.Kind) *annotation.Shape {
	now := e.doc.NextSeq()
	return &annotation.Shape{
		ID:        annotation.NewID(),
		Kind:      kind,
		Style:     e.defaultStyle,
		ZOrder:    e.doc.NextZOrder(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
