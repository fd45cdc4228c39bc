package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"medrelease/internal/model"
)

// Store owns the single JSON document in memory and on disk. All reads and
// mutations are funnelled through View/Update; Update holds the store lock
// across the caller's read-modify-write and the disk persist, which is the
// advisory-lock hardening around the otherwise lock-free source design.
// Visibility stays whole-document: nothing is observable on disk until a
// write replaces the blob, and the last write wins.
type Store struct {
	path string

	mu  sync.RWMutex
	doc *model.Document
}

// New returns a store bound to the given document path. Nothing is read
// until Load.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the on-disk location of the document blob.
func (s *Store) Path() string {
	return s.path
}

// Load reads the on-disk blob into memory, seeding and persisting the
// default document if the file does not exist, then runs the schema
// migration. A blob that exists but does not parse fails with
// ErrCorruptStore; the store never auto-repairs.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		s.doc = seedDocument()
		log.Printf("store: no document at %s, seeding default", s.path)
		if err := s.persist(); err != nil {
			return fmt.Errorf("persist seed document: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read document: %w", err)
	default:
		var doc model.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		s.doc = &doc
	}

	// Migration errors never abort startup: a failed persist is logged and
	// the migrated document stays live in memory.
	if migrate(s.doc) {
		log.Println("store: schema migration changed the document, persisting")
		if err := s.persist(); err != nil {
			log.Printf("store: persist after migration failed: %v", err)
		}
	}
	return nil
}

// Read refreshes the in-memory document from disk. It exists to pick up
// writes made by another process sharing the same file.
func (s *Store) Read() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	s.doc = &doc
	return nil
}

// Write serializes the in-memory document and replaces the on-disk blob.
func (s *Store) Write() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	return s.persist()
}

// View runs fn with read access to the document. fn must not mutate it.
func (s *Store) View(fn func(doc *model.Document) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	return fn(s.doc)
}

// Update runs fn with exclusive access to the document and persists the
// result. When fn returns an error the document may already be mutated in
// memory but is not persisted.
func (s *Store) Update(fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return ErrNotLoaded
	}
	if err := fn(s.doc); err != nil {
		return err
	}
	return s.persist()
}

// persist writes the current document to disk. Callers hold at least the
// read lock.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
