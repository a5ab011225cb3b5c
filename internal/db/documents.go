package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/types"
)

// DefaultDocumentName is used when no document name is configured
const DefaultDocumentName = "default"

// ErrDocumentNotFound is returned by Load when no row exists for the name
var ErrDocumentNotFound = errors.New("resume document not found")

// StaleRevisionError reports a save that lost to a newer stored revision
type StaleRevisionError struct {
	Name     string
	Revision int64
}

func (e *StaleRevisionError) Error() string {
	return fmt.Sprintf("document %q already stored at a revision newer than %d", e.Name, e.Revision)
}

// backend is the SQL dialect behind a DocumentStore
type backend interface {
	// selectDocument returns ErrDocumentNotFound when no row exists
	selectDocument(ctx context.Context, name string) (content []byte, revision int64, err error)
	// upsertDocument writes the row unless a revision >= revision is stored;
	// it reports whether a row was written
	upsertDocument(ctx context.Context, name string, content []byte, revision int64) (bool, error)
}

// DocumentStore persists one named resume as a row in resume_documents.
//
// In-process revisions restart at zero on every load, so the stored revision
// is the revision read at Load plus the in-process revision. The upsert only
// replaces rows with a lower stored revision.
type DocumentStore struct {
	b    backend
	name string

	mu   sync.Mutex
	base int64
}

func newDocumentStore(q querier, name string) *DocumentStore {
	return newStore(postgres{q: q}, name)
}

func newStore(b backend, name string) *DocumentStore {
	if name == "" {
		name = DefaultDocumentName
	}
	return &DocumentStore{b: b, name: name}
}

// Name returns the document name
func (s *DocumentStore) Name() string {
	return s.name
}

// Load reads and decodes the stored document
func (s *DocumentStore) Load(ctx context.Context) (*types.Resume, error) {
	content, revision, err := s.b.selectDocument(ctx, s.name)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, &document.LoadError{
				Message: fmt.Sprintf("no document named %q", s.name),
				Cause:   ErrDocumentNotFound,
			}
		}
		return nil, &document.LoadError{
			Message: fmt.Sprintf("failed to query document %q", s.name),
			Cause:   err,
		}
	}

	resume, err := document.Decode(content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.base = revision
	s.mu.Unlock()
	return resume, nil
}

// Save upserts the document at the given in-process revision
func (s *DocumentStore) Save(ctx context.Context, resume *types.Resume, revision uint64) error {
	content, err := document.Encode(resume)
	if err != nil {
		return err
	}

	s.mu.Lock()
	stored := s.base + int64(revision)
	s.mu.Unlock()

	written, err := s.b.upsertDocument(ctx, s.name, content, stored)
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", s.name, err)
	}
	if !written {
		return &StaleRevisionError{Name: s.name, Revision: stored}
	}
	return nil
}
