package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-markup/internal/editor"
	"survey-markup/internal/render"
	"survey-markup/pkg/geometry"
)

func writePhoto(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 180, B: 180, A: 255})
		}
	}
	path := filepath.Join(dir, "wall.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func drawRect(e *editor.Editor) {
	e.SelectTool(editor.ToolRectangle)
	e.PointerDown(geometry.NewPoint2D(10, 10))
	e.PointerMove(geometry.NewPoint2D(60, 40))
	e.PointerUp(geometry.NewPoint2D(60, 40))
}

func TestOpenImageStartsFreshDocument(t *testing.T) {
	s := NewState()

	var loaded int
	s.On(EventImageLoaded, func(data interface{}) { loaded++ })

	path := writePhoto(t, t.TempDir())
	require.NoError(t, s.OpenImage(path))
	assert.Equal(t, 1, loaded)
	assert.Equal(t, path, s.Background.Ref)
	assert.Equal(t, 0, s.Editor.Document().Len())
}

func TestSaveAndLoadProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	photo := writePhoto(t, dir)
	projPath := filepath.Join(dir, "wall.smproj")

	s := NewState()
	require.NoError(t, s.OpenImage(photo))
	drawRect(s.Editor)
	require.True(t, s.Editor.Dirty())

	require.NoError(t, s.SaveProject(projPath))
	assert.False(t, s.Editor.Dirty(), "saving resets the baseline")
	assert.FileExists(t, filepath.Join(dir, "wall_annotations.json"))

	loaded := NewState()
	require.NoError(t, loaded.LoadProject(projPath))
	assert.Equal(t, 1, loaded.Editor.Document().Len())
	assert.Equal(t, photo, loaded.Background.Ref)
}

func TestExportWritesPNG(t *testing.T) {
	s := NewState()
	require.NoError(t, s.OpenImage(writePhoto(t, t.TempDir())))
	drawRect(s.Editor)

	var buf bytes.Buffer
	require.NoError(t, s.Export(context.Background(), &buf, render.DefaultOptions()))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, buf.Bytes()[:4])
}

func TestExportWithoutImageFails(t *testing.T) {
	s := NewState()
	assert.Error(t, s.Export(context.Background(), &bytes.Buffer{}, render.DefaultOptions()))
}

func TestOpenRemote(t *testing.T) {
	var photoBytes bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 30, 20))
	require.NoError(t, png.Encode(&photoBytes, img))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/images/wall.png":
			w.Write(photoBytes.Bytes())
		case "/images/wall.png/annotations":
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	s := NewState()
	s.ConnectServer(srv.URL, "token")
	require.NoError(t, s.OpenRemote(context.Background(), "wall.png"))
	assert.Equal(t, "wall.png", s.Background.Ref)
	assert.Equal(t, 30, s.Background.Width())
	assert.Equal(t, 0, s.Editor.Document().Len())
}

func TestSaveRemoteRequiresClient(t *testing.T) {
	s := NewState()
	require.NoError(t, s.OpenImage(writePhoto(t, t.TempDir())))
	assert.Error(t, s.SaveRemote(context.Background()))
}
