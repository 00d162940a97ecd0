// Package app provides application lifecycle management and coordination
// between the editor, the annotation server, and project files.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"survey-markup/internal/annotation"
	"survey-markup/internal/background"
	"survey-markup/internal/editor"
	"survey-markup/internal/project"
	"survey-markup/internal/render"
	"survey-markup/internal/store"
)

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImageLoaded
	EventAnnotationsSaved
	EventExportComplete
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the open photograph, the editor over
// its annotations, and the persistence targets.
type State struct {
	mu sync.RWMutex

	// Project
	ProjectPath string
	Project     *project.File

	// Open photograph and its editor
	Background *background.Background
	Editor     *editor.Editor

	// Persistence
	Client   *store.Client
	Renderer *render.Renderer

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates a new application state.
func NewState() *State {
	return &State{
		Renderer:  render.NewRenderer(""),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// ConnectServer configures the annotation server client.
func (s *State) ConnectServer(baseURL, token string) {
	s.mu.Lock()
	s.Client = store.NewClient(baseURL, token)
	s.mu.Unlock()
}

// OpenImage loads a local photograph and starts a fresh annotation document
// over it. An existing local annotation file for the image is not consulted;
// use LoadProject for that.
func (s *State) OpenImage(path string) error {
	bg, err := background.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Background = bg
	s.Editor = editor.New(annotation.NewDocument(path))
	s.mu.Unlock()

	s.Emit(EventImageLoaded, bg)
	return nil
}

// OpenRemote fetches a photograph and its annotation set from the server.
func (s *State) OpenRemote(ctx context.Context, imageRef string) error {
	s.mu.RLock()
	client := s.Client
	s.mu.RUnlock()
	if client == nil {
		return fmt.Errorf("no annotation server configured")
	}

	data, err := client.FetchImage(ctx, imageRef)
	if err != nil {
		return err
	}
	bg, err := background.DecodeBytes(data)
	if err != nil {
		return err
	}
	bg.Ref = imageRef

	doc, err := client.LoadAnnotations(ctx, imageRef)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Background = bg
	s.Editor = editor.New(doc)
	s.mu.Unlock()

	s.Emit(EventImageLoaded, bg)
	return nil
}

// LoadProject loads a project file, its photograph, and its annotations.
func (s *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return err
	}

	imagePath := proj.GetImagePath(path)
	if imagePath == "" {
		return fmt.Errorf("project %q has no image", path)
	}
	bg, err := background.Load(imagePath)
	if err != nil {
		return err
	}

	doc := annotation.NewDocument(imagePath)
	annPath := proj.GetAnnotationsPath(path)
	if _, statErr := os.Stat(annPath); statErr == nil {
		doc, err = store.LoadFile(annPath)
		if err != nil {
			return err
		}
		doc.ImageRef = imagePath
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Project = proj
	s.Background = bg
	s.Editor = editor.New(doc)
	if proj.ServerURL != "" {
		s.Client = store.NewClient(proj.ServerURL, "")
	}
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject writes the project file and the annotation data next to it.
// The editor's saved baseline is reset.
func (s *State) SaveProject(path string) error {
	s.mu.Lock()
	if s.Editor == nil || s.Background == nil {
		s.mu.Unlock()
		return fmt.Errorf("nothing to save")
	}
	proj := s.Project
	if proj == nil {
		proj = project.New(projectName(path))
		s.Project = proj
	}
	proj.SetImage(path, s.Background.Ref)
	ed := s.Editor
	s.mu.Unlock()

	annPath := proj.GetAnnotationsPath(path)
	if err := ed.Save(context.Background(), fileSaver(annPath)); err != nil {
		return err
	}
	if err := proj.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}

// SaveRemote uploads the current annotation set to the server.
func (s *State) SaveRemote(ctx context.Context) error {
	s.mu.RLock()
	client := s.Client
	ed := s.Editor
	s.mu.RUnlock()

	if ed == nil {
		return fmt.Errorf("nothing to save")
	}
	if client == nil {
		return fmt.Errorf("no annotation server configured")
	}
	if err := ed.Save(ctx, client); err != nil {
		return err
	}
	s.Emit(EventAnnotationsSaved, nil)
	return nil
}

// Export flattens the current document over its photograph.
func (s *State) Export(ctx context.Context, w io.Writer, opts render.Options) error {
	s.mu.RLock()
	ed := s.Editor
	bg := s.Background
	s.mu.RUnlock()

	if ed == nil || bg == nil {
		return fmt.Errorf("nothing to export")
	}
	if err := s.Renderer.Flatten(ctx, ed.Snapshot(), bg, w, opts); err != nil {
		return err
	}
	s.Emit(EventExportComplete, opts.Format)
	return nil
}

// fileSaver adapts a local file path to the editor's save interface.
type fileSaver string

func (f fileSaver) SaveAnnotations(_ context.Context, doc *annotation.Document) error {
	return store.SaveFile(string(f), doc)
}

func projectName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
