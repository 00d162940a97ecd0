package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-markup/internal/annotation"
	"survey-markup/internal/background"
	"survey-markup/pkg/geometry"
)

func testBackground(w, h int) *background.Background {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	return &background.Background{Ref: "test.png", Image: img}
}

func addShape(t *testing.T, doc *annotation.Document, kind annotation.Kind, coords ...float64) *annotation.Shape {
	t.Helper()
	points := make([]geometry.Point2D, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, geometry.NewPoint2D(coords[i], coords[i+1]))
	}
	s := &annotation.Shape{
		ID:     annotation.NewID(),
		Kind:   kind,
		Points: points,
		Style:  annotation.DefaultStyle(),
		ZOrder: doc.NextZOrder(),
	}
	if kind == annotation.KindText {
		s.Text = "日本語テスト"
		s.FontSize = 18
	}
	require.NoError(t, doc.Add(s))
	return s
}

func fullDoc(t *testing.T) *annotation.Document {
	doc := annotation.NewDocument("test.png")
	addShape(t, doc, annotation.KindDimension, 10, 90, 110, 90)
	addShape(t, doc, annotation.KindArrow, 10, 10, 60, 50)
	addShape(t, doc, annotation.KindCircle, 100, 40, 120, 40)
	addShape(t, doc, annotation.KindRectangle, 20, 20, 70, 60)
	addShape(t, doc, annotation.KindPolygon, 130, 10, 170, 10, 150, 50)
	addShape(t, doc, annotation.KindPolyline, 10, 70, 60, 75, 110, 70)
	addShape(t, doc, annotation.KindFreehand, 120, 70, 140, 75, 160, 70, 180, 75)
	addShape(t, doc, annotation.KindText, 30, 100)
	return doc
}

func TestFlattenPNGAllKinds(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer

	err := r.Flatten(context.Background(), fullDoc(t), testBackground(200, 150), &buf, DefaultOptions())
	require.NoError(t, err)
	assert.Greater(t, buf.Len(), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())
}

func TestFlattenJPEG(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = "jpeg"
	opts.Quality = 80

	err := r.Flatten(context.Background(), fullDoc(t), testBackground(200, 150), &buf, opts)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8}, buf.Bytes()[:2], "JPEG SOI marker")
}

func TestFlattenScaleDoublesOutput(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Scale = 2

	err := r.Flatten(context.Background(), fullDoc(t), testBackground(200, 150), &buf, opts)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestFlattenUnknownFormat(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = "webp"

	err := r.Flatten(context.Background(), annotation.NewDocument("x"), testBackground(10, 10), &buf, opts)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)
	assert.Zero(t, buf.Len())
}

func TestFlattenNoBackground(t *testing.T) {
	r := NewRenderer("")
	var buf bytes.Buffer
	err := r.Flatten(context.Background(), annotation.NewDocument("x"), nil, &buf, DefaultOptions())
	var rerr *RenderError
	assert.ErrorAs(t, err, &rerr)
}

func TestFlattenCancelled(t *testing.T) {
	r := NewRenderer("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := r.Flatten(ctx, fullDoc(t), testBackground(200, 150), &buf, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFlattenDeterministic(t *testing.T) {
	r := NewRenderer("")
	doc := fullDoc(t)
	bg := testBackground(200, 150)

	var a, b bytes.Buffer
	require.NoError(t, r.Flatten(context.Background(), doc, bg, &a, DefaultOptions()))
	require.NoError(t, r.Flatten(context.Background(), doc, bg, &b, DefaultOptions()))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestComposeAnnotationsChangePixels(t *testing.T) {
	r := NewRenderer("")
	bg := testBackground(100, 100)

	plain, err := r.Compose(context.Background(), annotation.NewDocument("x"), bg, 1, "")
	require.NoError(t, err)

	doc := annotation.NewDocument("x")
	addShape(t, doc, annotation.KindRectangle, 20, 20, 80, 80)
	marked, err := r.Compose(context.Background(), doc, bg, 1, "")
	require.NoError(t, err)

	assert.NotEqual(t, colorAt(plain, 20, 20), colorAt(marked, 20, 20), "stroke covers the rectangle corner")
	assert.Equal(t, colorAt(plain, 50, 50), colorAt(marked, 50, 50), "unfilled interior is untouched")
}

func colorAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestExportOriginalPreservesPixels(t *testing.T) {
	r := NewRenderer("")
	bg := testBackground(60, 40)

	var buf bytes.Buffer
	require.NoError(t, r.ExportOriginal(context.Background(), bg, &buf, DefaultOptions()))

	img, _, err := image.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
	assert.Equal(t, colorAt(bg.Image, 30, 20), colorAt(img, 30, 20))
}

func TestDimensionLabel(t *testing.T) {
	assert.Equal(t, "100 px", dimensionLabel(100, 0))
	assert.Equal(t, "2.5 cm", dimensionLabel(100, 101.6))
}

func TestSuggestedFilename(t *testing.T) {
	assert.Equal(t, "north-wall_annotated.png", SuggestedFilename("site/north-wall.jpg", "png"))
	assert.Equal(t, "north-wall_annotated.jpg", SuggestedFilename("north-wall.png", "jpeg"))
	assert.Equal(t, "annotated.png", SuggestedFilename("", "png"))
}
