// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// File represents a survey markup project file (.smproj). It ties a
// photograph to its annotation data and remembers the server it syncs with.
type File struct {
	Version     int       `json:"version"`
	Name        string    `json:"name"`
	Created     time.Time `json:"created"`
	Modified    time.Time `json:"modified"`
	Description string    `json:"description,omitempty"`

	// Image path (relative to project file) or server image reference
	ImagePath string `json:"image,omitempty"`
	ImageRef  string `json:"image_ref,omitempty"`

	// Annotation data file path (relative to project file)
	AnnotationsPath string `json:"annotations,omitempty"`

	// Annotation server, when the project syncs remotely
	ServerURL string `json:"server_url,omitempty"`

	// User settings
	Settings ProjectSettings `json:"settings,omitempty"`
}

// ProjectSettings holds user preferences for the project.
type ProjectSettings struct {
	StrokeColor  string  `json:"stroke_color,omitempty"`
	StrokeWidth  float64 `json:"stroke_width,omitempty"`
	FontSize     float64 `json:"font_size,omitempty"`
	ExportFormat string  `json:"export_format,omitempty"`
	ExportScale  float64 `json:"export_scale,omitempty"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
		Settings: ProjectSettings{
			StrokeColor:  "#e62828",
			StrokeWidth:  3,
			FontSize:     18,
			ExportFormat: "png",
			ExportScale:  1,
		},
	}
}

// Load loads a project from a .smproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImage sets the photograph path (relative to project).
func (p *File) SetImage(projectPath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.ImagePath = imagePath
	} else {
		p.ImagePath = rel
	}
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path to the photograph.
func (p *File) GetImagePath(projectPath string) string {
	if p.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(p.ImagePath) {
		return p.ImagePath
	}
	return filepath.Join(filepath.Dir(projectPath), p.ImagePath)
}

// GetAnnotationsPath returns the absolute path to the annotations file.
func (p *File) GetAnnotationsPath(projectPath string) string {
	if p.AnnotationsPath == "" {
		// Default: project_name_annotations.json
		base := projectPath[:len(projectPath)-len(filepath.Ext(projectPath))]
		return base + "_annotations.json"
	}
	if filepath.IsAbs(p.AnnotationsPath) {
		return p.AnnotationsPath
	}
	return filepath.Join(filepath.Dir(projectPath), p.AnnotationsPath)
}
