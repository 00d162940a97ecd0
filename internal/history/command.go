// Package history provides reversible edit commands over an annotation
// document and a bounded undo/redo stack pair. Every document mutation in
// the editor goes through a Command so it can be undone.
package history

import (
	"survey-markup/internal/annotation"
)

// Command is a reversible operation over a document. Commands are immutable
// once recorded: they hold deep copies of the shapes they reference, and
// Apply hands the document fresh copies so later edits never alias history.
type Command interface {
	Apply(doc *annotation.Document) error
	Invert() Command
	Name() string
}

// Create adds a shape to the document.
type Create struct {
	shape *annotation.Shape
}

// NewCreate records the creation of a shape.
func NewCreate(s *annotation.Shape) *Create {
	return &Create{shape: s.Clone()}
}

// ShapeID returns the ID of the shape being created.
func (c *Create) ShapeID() string { return c.shape.ID }

func (c *Create) Apply(doc *annotation.Document) error {
	return doc.Add(c.shape.Clone())
}

func (c *Create) Invert() Command {
	return &Delete{shapeID: c.shape.ID, prior: c.shape}
}

func (c *Create) Name() string { return "create " + c.shape.Kind.String() }

// Delete removes a shape from the document, remembering it for undo.
type Delete struct {
	shapeID string
	prior   *annotation.Shape
}

// NewDelete records the deletion of a shape. prior must be the shape's
// state at deletion time.
func NewDelete(prior *annotation.Shape) *Delete {
	return &Delete{shapeID: prior.ID, prior: prior.Clone()}
}

func (d *Delete) Apply(doc *annotation.Document) error {
	_, err := doc.Remove(d.shapeID)
	return err
}

func (d *Delete) Invert() Command {
	return &Create{shape: d.prior}
}

func (d *Delete) Name() string { return "delete " + d.prior.Kind.String() }

// Update replaces a shape's state (geometry or style) with a new one.
type Update struct {
	shapeID string
	prior   *annotation.Shape
	next    *annotation.Shape
}

// NewUpdate records a state change of an existing shape. prior and next
// must share the same ID.
func NewUpdate(prior, next *annotation.Shape) *Update {
	return &Update{shapeID: prior.ID, prior: prior.Clone(), next: next.Clone()}
}

func (u *Update) Apply(doc *annotation.Document) error {
	_, err := doc.Replace(u.next.Clone())
	return err
}

func (u *Update) Invert() Command {
	return &Update{shapeID: u.shapeID, prior: u.next, next: u.prior}
}

func (u *Update) Name() string { return "update " + u.next.Kind.String() }
