package store

import (
	"fmt"
	"os"

	"survey-markup/internal/annotation"
)

// SaveFile writes the document as JSON to a local file, for offline work and
// the headless exporter.
func SaveFile(path string, doc *annotation.Document) error {
	data, err := annotation.MarshalDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal annotations: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFile reads an annotation document from a local JSON file.
func LoadFile(path string) (*annotation.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	return annotation.UnmarshalDocument(data)
}
