package router

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

// AmbiguousError reports that a request could not be attributed to a single
// section. Question is the clarification to put back to the user.
type AmbiguousError struct {
	Candidates []types.Section
	Question   string
}

func (e *AmbiguousError) Error() string {
	if len(e.Candidates) == 0 {
		return "routing ambiguous: " + e.Question
	}
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = string(c)
	}
	return fmt.Sprintf("routing ambiguous between %s: %s", strings.Join(names, ", "), e.Question)
}

// MissingOperationError reports a request whose section is known but whose
// operation could not be determined
type MissingOperationError struct {
	Section    types.Section
	Operations []string
}

func (e *MissingOperationError) Error() string {
	return fmt.Sprintf("no operation given for section %s (available: %s)", e.Section, strings.Join(e.Operations, ", "))
}

// ExtractionError wraps a failure of the intent-extraction collaborator
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
