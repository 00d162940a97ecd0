package history

import (
	"log"

	"survey-markup/internal/annotation"
)

// DefaultCap is the maximum number of undo plus redo entries retained.
// Pushing past the cap silently evicts the oldest undo entry; older history
// becomes unrecoverable, which is the accepted price of bounded memory.
const DefaultCap = 50

// History is the undo/redo engine for one document. It is scoped to the
// document's lifetime: construct it with the editor view, discard it when
// the view closes. Like the document it is single-mutator and unlocked.
type History struct {
	doc  *annotation.Document
	undo []Command
	redo []Command
	cap  int

	onChange func()
}

// New creates a history for the given document with the default capacity.
func New(doc *annotation.Document) *History {
	return &History{doc: doc, cap: DefaultCap}
}

// OnChange registers a callback fired after every stack mutation, for UI
// bindings such as undo/redo button enablement and the dirty indicator.
func (h *History) OnChange(fn func()) {
	h.onChange = fn
}

func (h *History) notify() {
	if h.onChange != nil {
		h.onChange()
	}
}

// Execute applies the command to the document and records it. A new edit
// invalidates any previously undone future, so the redo stack is cleared.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Apply(h.doc); err != nil {
		return err
	}

	h.undo = append(h.undo, cmd)
	h.redo = h.redo[:0]
	if len(h.undo) > h.cap {
		// Oldest-first eviction; see DefaultCap.
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.cap:]...)
	}
	h.notify()
	return nil
}

// Undo reverts the most recent command. It is a no-op (returning false) when
// there is nothing to undo.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}

	cmd := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	if err := cmd.Invert().Apply(h.doc); err != nil {
		// The inverse of a recorded command must apply cleanly; if it
		// doesn't the stacks are out of sync with the document.
		log.Printf("history: undo %s failed: %v", cmd.Name(), err)
		return false
	}
	h.redo = append(h.redo, cmd)
	h.notify()
	return true
}

// Redo re-applies the most recently undone command. It is a no-op
// (returning false) when there is nothing to redo.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}

	cmd := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if err := cmd.Apply(h.doc); err != nil {
		log.Printf("history: redo %s failed: %v", cmd.Name(), err)
		return false
	}
	h.undo = append(h.undo, cmd)
	h.notify()
	return true
}

// Clear empties both stacks. Called after a successful save: the saved
// state is the new baseline and there is nothing to undo through a server
// round-trip.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
	h.notify()
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Dirty reports whether there are unsaved edits (any undoable command since
// the last Clear).
func (h *History) Dirty() bool { return len(h.undo) > 0 }

// Depth returns the combined size of both stacks.
func (h *History) Depth() int { return len(h.undo) + len(h.redo) }
