package document

import "fmt"

// LoadError represents an error during file I/O, JSON parsing or schema checking
// of a persisted document
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// PersistenceError reports that a committed revision could not be made durable.
// The in-memory commit already happened when this error is returned.
type PersistenceError struct {
	Revision uint64
	Cause    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: revision %d committed in memory but not saved: %v", e.Revision, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
