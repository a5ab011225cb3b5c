// Package invoker executes resolved mutations as all-or-nothing transactions
// against the document store.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/validation"
)

// Outcome reports the result of one Execute call.
//
// Committed is true once the candidate replaced the committed document. A
// committed outcome can still carry an Err when persistence failed; that
// error is a *document.PersistenceError.
type Outcome struct {
	ID        uuid.UUID     `json:"id"`
	Tool      string        `json:"tool"`
	Section   types.Section `json:"section"`
	Committed bool          `json:"committed"`
	Persisted bool          `json:"persisted"`
	Revision  uint64        `json:"revision,omitempty"`
	Message   string        `json:"message,omitempty"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
}

// Success reports whether the mutation was committed and made durable (or no
// persister is configured)
func (o *Outcome) Success() bool {
	return o.Committed && o.Err == nil
}

// Recorder receives every finished Outcome, e.g. for metrics
type Recorder interface {
	RecordOutcome(out *Outcome)
}

// Invoker is the transaction boundary. It is safe for concurrent use; the
// store serializes the mutations themselves.
type Invoker struct {
	store     *document.Store
	validator *validation.Validator
	persister document.Persister
	recorder  Recorder

	persistMu sync.Mutex
	persisted uint64
}

// New creates an Invoker. persister may be nil for in-memory use.
func New(store *document.Store, validator *validation.Validator, persister document.Persister) *Invoker {
	if validator == nil {
		validator = validation.New()
	}
	return &Invoker{
		store:     store,
		validator: validator,
		persister: persister,
		persisted: store.Revision(),
	}
}

// SetRecorder installs r. It must be called before the Invoker is shared.
func (i *Invoker) SetRecorder(r Recorder) {
	i.recorder = r
}

// Execute applies one mutation:
//  1. copy the committed document
//  2. apply the mutation to the copy
//  3. validate the copy
//  4. commit it with a single pointer swap, or
//  5. discard it and report why.
//
// Errors never escape as panics; they are reported in Outcome.Err and leave
// the committed document untouched. Persistence runs after the commit.
func (i *Invoker) Execute(ctx context.Context, inv *tools.Invocation) *Outcome {
	start := time.Now()
	out := &Outcome{ID: uuid.New()}
	defer func() {
		out.Duration = time.Since(start)
		if i.recorder != nil {
			i.recorder.RecordOutcome(out)
		}
	}()

	if inv == nil || inv.Tool == nil {
		out.Err = &tools.InvalidArgumentError{Tool: "(none)", Message: "empty invocation"}
		return out
	}
	out.Tool = inv.Tool.Name
	out.Section = inv.Tool.Section

	if inv.Tool.ReadOnly() {
		out.Err = &tools.InvalidArgumentError{Tool: inv.Tool.Name, Message: "read-only tool cannot be executed as a mutation"}
		return out
	}

	var message string
	revision, err := i.store.Transact(ctx, func(candidate *types.Resume) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("mutation %s panicked: %v", inv.Tool.Name, rec)
			}
		}()

		msg, err := inv.Tool.Mutate(candidate, inv.Args)
		if err != nil {
			return err
		}
		if err := i.validator.Validate(candidate).Err(); err != nil {
			return err
		}
		message = msg
		return nil
	})
	if err != nil {
		out.Err = err
		log.Printf("[invoker] %s %s rejected: %v", out.ID, inv.Describe(), summarize(err))
		return out
	}

	out.Committed = true
	out.Revision = revision
	out.Message = message
	log.Printf("[invoker] %s %s committed revision %d", out.ID, inv.Describe(), revision)

	if i.persister == nil {
		return out
	}

	// The commit cannot be undone, so a caller cancelling now must not stop
	// the save of what is already visible.
	if err := i.persist(context.WithoutCancel(ctx)); err != nil {
		out.Err = &document.PersistenceError{Revision: revision, Cause: err}
		log.Printf("[invoker] %s revision %d not persisted: %v", out.ID, revision, err)
		return out
	}
	out.Persisted = true
	return out
}

// persist saves the latest committed document unless a newer or equal
// revision has already been saved, so saves land in commit order
func (i *Invoker) persist(ctx context.Context) error {
	i.persistMu.Lock()
	defer i.persistMu.Unlock()

	snapshot, revision := i.store.SnapshotAt()
	if revision <= i.persisted {
		return nil
	}
	if err := i.persister.Save(ctx, snapshot, revision); err != nil {
		return err
	}
	i.persisted = revision
	return nil
}

func summarize(err error) string {
	var validationErr *validation.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Sprintf("validation failed (%s, %d violation(s))", validationErr.Category, len(validationErr.Violations))
	}
	return err.Error()
}
