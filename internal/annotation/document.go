package annotation

import (
	"fmt"
	"sort"
)

// Document is the full annotation state for one background photo. Shapes are
// kept in stacking order (lowest ZOrder first). The background image itself
// is referenced by its externally-owned identifier, never copied.
//
// A Document has exactly one mutator (the editor, via command history), so
// it carries no lock of its own; renderers work from Clone snapshots.
type Document struct {
	ImageRef string

	shapes []*Shape
	byID   map[string]*Shape
	clock  int64
	zmax   int
}

// NewDocument creates an empty document for the given background image
// reference.
func NewDocument(imageRef string) *Document {
	return &Document{
		ImageRef: imageRef,
		byID:     make(map[string]*Shape),
	}
}

// Len returns the number of shapes in the document.
func (d *Document) Len() int {
	return len(d.shapes)
}

// NextSeq issues the next logical timestamp for Created/Updated stamps.
func (d *Document) NextSeq() int64 {
	d.clock++
	return d.clock
}

// NextZOrder returns the stacking position for a newly created shape.
func (d *Document) NextZOrder() int {
	return d.zmax + 1
}

// Add inserts a shape. The shape must validate and its ID must be unique
// within the document. The document takes ownership of the pointer.
func (d *Document) Add(s *Shape) error {
	if err := Validate(s); err != nil {
		return err
	}
	if _, exists := d.byID[s.ID]; exists {
		return fmt.Errorf("duplicate shape id %s", s.ID)
	}

	d.byID[s.ID] = s
	d.shapes = append(d.shapes, s)
	sort.SliceStable(d.shapes, func(i, j int) bool {
		return d.shapes[i].ZOrder < d.shapes[j].ZOrder
	})
	if s.ZOrder > d.zmax {
		d.zmax = s.ZOrder
	}
	return nil
}

// Remove deletes a shape by ID and returns it.
func (d *Document) Remove(id string) (*Shape, error) {
	s, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("no shape with id %s", id)
	}
	delete(d.byID, id)
	for i, cur := range d.shapes {
		if cur == s {
			d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
			break
		}
	}
	return s, nil
}

// Replace swaps the shape with next.ID for next and returns the prior shape.
func (d *Document) Replace(next *Shape) (*Shape, error) {
	if err := Validate(next); err != nil {
		return nil, err
	}
	prior, ok := d.byID[next.ID]
	if !ok {
		return nil, fmt.Errorf("no shape with id %s", next.ID)
	}

	d.byID[next.ID] = next
	for i, cur := range d.shapes {
		if cur == prior {
			d.shapes[i] = next
			break
		}
	}
	if next.ZOrder != prior.ZOrder {
		sort.SliceStable(d.shapes, func(i, j int) bool {
			return d.shapes[i].ZOrder < d.shapes[j].ZOrder
		})
	}
	return prior, nil
}

// ByID returns the shape with the given ID, or nil.
func (d *Document) ByID(id string) *Shape {
	return d.byID[id]
}

// Shapes returns the shapes in stacking order. The slice is a copy; the
// shape pointers are the live document shapes and must not be mutated
// outside a command.
func (d *Document) Shapes() []*Shape {
	out := make([]*Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

// TopmostAt returns the highest-stacked shape whose hit region contains p,
// or nil. tolerance widens stroke hit regions for easier picking.
func (d *Document) TopmostAt(pX, pY, tolerance float64) *Shape {
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if HitTest(d.shapes[i], pointAt(pX, pY), tolerance) {
			return d.shapes[i]
		}
	}
	return nil
}

// Clone returns a deep snapshot of the document, used for export so
// rendering never races with editing.
func (d *Document) Clone() *Document {
	c := NewDocument(d.ImageRef)
	c.clock = d.clock
	c.zmax = d.zmax
	c.shapes = make([]*Shape, len(d.shapes))
	for i, s := range d.shapes {
		cs := s.Clone()
		c.shapes[i] = cs
		c.byID[cs.ID] = cs
	}
	return c
}

// Equal reports whether two documents hold the same shapes with the same
// content, in the same stacking order.
func (d *Document) Equal(other *Document) bool {
	if d.ImageRef != other.ImageRef || len(d.shapes) != len(other.shapes) {
		return false
	}
	for i, s := range d.shapes {
		o := other.shapes[i]
		if s.ID != o.ID || s.Kind != o.Kind || s.Text != o.Text ||
			s.FontSize != o.FontSize || s.Style != o.Style ||
			s.ZOrder != o.ZOrder || len(s.Points) != len(o.Points) {
			return false
		}
		for j := range s.Points {
			if s.Points[j] != o.Points[j] {
				return false
			}
		}
	}
	return true
}
