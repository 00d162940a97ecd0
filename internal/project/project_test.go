package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site42.smproj")

	p := New("site42")
	p.SetImage(path, filepath.Join(dir, "photos", "north-wall.jpg"))
	p.ServerURL = "https://annotations.example.com"
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site42", loaded.Name)
	assert.Equal(t, filepath.Join("photos", "north-wall.jpg"), loaded.ImagePath)
	assert.Equal(t, filepath.Join(dir, "photos", "north-wall.jpg"), loaded.GetImagePath(path))
	assert.Equal(t, "png", loaded.Settings.ExportFormat)
}

func TestDefaultAnnotationsPath(t *testing.T) {
	p := New("site42")
	got := p.GetAnnotationsPath("/work/site42.smproj")
	assert.Equal(t, "/work/site42_annotations.json", got)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.smproj")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}
