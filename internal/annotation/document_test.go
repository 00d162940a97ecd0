package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-markup/pkg/geometry"
)

func TestDocumentAddRemove(t *testing.T) {
	doc := NewDocument("img-1")
	s := validShape(KindRectangle)
	s.ZOrder = doc.NextZOrder()

	require.NoError(t, doc.Add(s))
	assert.Equal(t, 1, doc.Len())
	assert.Same(t, s, doc.ByID(s.ID))

	// Duplicate IDs are rejected
	dup := validShape(KindArrow)
	dup.ID = s.ID
	assert.Error(t, doc.Add(dup))
	assert.Equal(t, 1, doc.Len())

	removed, err := doc.Remove(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, removed)
	assert.Equal(t, 0, doc.Len())

	_, err = doc.Remove(s.ID)
	assert.Error(t, err)
}

func TestDocumentStackingOrder(t *testing.T) {
	doc := NewDocument("img-1")
	bottom := validShape(KindRectangle)
	bottom.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(bottom))

	top := validShape(KindCircle)
	top.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(top))

	shapes := doc.Shapes()
	require.Len(t, shapes, 2)
	assert.Same(t, bottom, shapes[0])
	assert.Same(t, top, shapes[1])
}

func TestDocumentReplace(t *testing.T) {
	doc := NewDocument("img-1")
	s := validShape(KindArrow)
	s.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(s))

	next := s.Translate(geometry.NewPoint2D(10, 0))
	prior, err := doc.Replace(next)
	require.NoError(t, err)
	assert.Same(t, s, prior)
	assert.Same(t, next, doc.ByID(s.ID))

	// Replacing a missing shape fails
	ghost := validShape(KindArrow)
	_, err = doc.Replace(ghost)
	assert.Error(t, err)
}

func TestDocumentTopmostAt(t *testing.T) {
	doc := NewDocument("img-1")
	under := validShape(KindRectangle) // (10,10)-(60,40)
	under.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(under))

	over := validShape(KindRectangle)
	over.Style.Fill = DefaultStyle().Stroke
	over.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(over))

	hit := doc.TopmostAt(30, 25, 3)
	assert.Same(t, over, hit, "topmost shape wins")

	assert.Nil(t, doc.TopmostAt(500, 500, 3))
}

func TestDocumentCloneIndependent(t *testing.T) {
	doc := NewDocument("img-1")
	s := validShape(KindPolyline)
	s.ZOrder = doc.NextZOrder()
	require.NoError(t, doc.Add(s))

	snap := doc.Clone()
	require.True(t, doc.Equal(snap))

	// Mutating the original must not show through the snapshot
	_, err := doc.Remove(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.False(t, doc.Equal(snap))
}
