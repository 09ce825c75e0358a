// Package blob persists original uploads and derived artifacts on the local
// filesystem. Layout: originals under <uploads>/<id>_<name>, artifacts under
// <processed>/<id>.md and <processed>/<id>.json. Artifact paths derive from a
// freshly generated id, so every file is write-once and needs no locking.
package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const dirPerm = 0o755

// Store is the filesystem blob store.
type Store struct {
	uploadsRoot   string
	processedRoot string
}

// New creates both storage roots if needed.
func New(uploadsRoot, processedRoot string) (*Store, error) {
	for _, dir := range []string{uploadsRoot, processedRoot} {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return nil, fmt.Errorf("create storage root %s: %w", dir, err)
		}
	}
	return &Store{uploadsRoot: uploadsRoot, processedRoot: processedRoot}, nil
}

// ProcessedRoot returns the derived-artifact root consumed by corpus-wide
// searches.
func (s *Store) ProcessedRoot() string { return s.processedRoot }

// SaveOriginal persists the raw upload bytes and returns the storage path.
func (s *Store) SaveOriginal(id, originalName string, data []byte) (string, error) {
	path := filepath.Join(s.uploadsRoot, id+"_"+sanitizeName(originalName))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write original %s: %w", path, err)
	}
	return path, nil
}

// RemoveOriginal deletes a persisted original. Used to roll back an upload
// whose registration could not complete.
func (s *Store) RemoveOriginal(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove original %s: %w", path, err)
	}
	return nil
}

// WriteText persists the flattened-text artifact for an id.
func (s *Store) WriteText(id, content string) (string, error) {
	path := s.TextPath(id)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write text artifact %s: %w", path, err)
	}
	return path, nil
}

// WriteElements persists the structured-element artifact for an id.
func (s *Store) WriteElements(id string, data []byte) (string, error) {
	path := s.ElementsPath(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write elements artifact %s: %w", path, err)
	}
	return path, nil
}

// TextPath returns the flattened-text artifact path for an id.
func (s *Store) TextPath(id string) string {
	return filepath.Join(s.processedRoot, id+".md")
}

// ElementsPath returns the structured-element artifact path for an id.
func (s *Store) ElementsPath(id string) string {
	return filepath.Join(s.processedRoot, id+".json")
}

// Check verifies both roots are writable. Used by the health endpoint.
func (s *Store) Check() error {
	for _, dir := range []string{s.uploadsRoot, s.processedRoot} {
		probe := filepath.Join(dir, ".healthcheck")
		if err := os.WriteFile(probe, nil, 0o644); err != nil {
			return fmt.Errorf("storage root %s not writable: %w", dir, err)
		}
		_ = os.Remove(probe)
	}
	return nil
}

// sanitizeName strips directory components and path separators from an
// uploaded filename so it cannot escape the uploads root.
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "upload"
	}
	return name
}
