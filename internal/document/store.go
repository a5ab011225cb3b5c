// Package document owns the committed resume and the snapshot/commit primitives around it.
package document

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jonathan/resume-forge/internal/types"
)

// committed pairs a document with the revision that produced it
type committed struct {
	resume   *types.Resume
	revision uint64
}

// Store holds the single committed resume.
//
// Readers load the committed pointer and copy it, so they never wait on a
// writer. Writers serialize on mu in lock-acquisition order. The committed
// document is never handed out directly, only copies of it.
type Store struct {
	mu      sync.Mutex
	current atomic.Pointer[committed]
}

// NewStore creates a store whose committed document is a copy of initial at revision 0
func NewStore(initial *types.Resume) *Store {
	r := initial.Clone()
	if r == nil {
		r = &types.Resume{}
	}
	r.Normalize()

	s := &Store{}
	s.current.Store(&committed{resume: r, revision: 0})
	return s
}

// Snapshot returns a deep copy of the committed document
func (s *Store) Snapshot() *types.Resume {
	return s.current.Load().resume.Clone()
}

// SnapshotAt returns a deep copy of the committed document with its revision
func (s *Store) SnapshotAt() (*types.Resume, uint64) {
	c := s.current.Load()
	return c.resume.Clone(), c.revision
}

// Revision returns the revision of the committed document
func (s *Store) Revision() uint64 {
	return s.current.Load().revision
}

// Transact runs fn against a private copy of the committed document and
// commits the copy if fn succeeds. At most one Transact runs at a time.
//
// The context is checked after the lock is acquired and again right before
// commit; a cancelled context leaves the committed document untouched. Once
// the commit assignment happens it cannot be undone.
func (s *Store) Transact(ctx context.Context, fn func(candidate *types.Resume) error) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	base := s.current.Load()
	candidate := base.resume.Clone()
	if err := fn(candidate); err != nil {
		return 0, err
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	next := &committed{resume: candidate, revision: base.revision + 1}
	s.current.Store(next)
	return next.revision, nil
}
