// Package identity persists the client identity handed to the proxy engine.
//
// The identity is a UUID v4 generated on first start and stored in a single
// file. Later runs reuse it so that clients configured against the engine
// keep working across restarts.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageError reports that the identity file could not be written.
// Callers treat it as fatal.
type StorageError struct {
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("identity storage %s: %v", e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Store loads and persists the identity at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the identity file path.
func (s *Store) Path() string {
	return s.path
}

// GetOrCreate returns the persisted identity. If the file is missing,
// unreadable or blank, a new UUID v4 is generated and written first.
// The second return value reports whether the identity was created.
func (s *Store) GetOrCreate() (string, bool, error) {
	if data, err := os.ReadFile(s.path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, false, nil
		}
	}

	id := uuid.NewString()
	if err := s.write(id); err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *Store) write(id string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &StorageError{Path: s.path, Err: err}
		}
	}
	if err := os.WriteFile(s.path, []byte(id), 0o600); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	// WriteFile keeps the mode of an existing file. An identity that was
	// regenerated because it could not be read must be readable next run.
	if err := os.Chmod(s.path, 0o600); err != nil {
		return &StorageError{Path: s.path, Err: err}
	}
	return nil
}

// Valid reports whether s is a canonical UUID v4 string: hyphenated,
// version nibble 4 and variant nibble one of 8, 9, a, b.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return id.Version() == 4 && id.Variant() == uuid.RFC4122
}
