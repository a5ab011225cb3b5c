// Package tools defines the closed registry of per-section resume operations.
package tools

import "fmt"

// NotFoundError reports that a referenced entry does not exist in its section
type NotFoundError struct {
	Kind string // "experience", "project", "education", "skill", "technology"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}

// DuplicateError reports that a value is already present where values must be unique
type DuplicateError struct {
	Kind  string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Kind, e.Value)
}

// IndexError reports an out-of-range list index, e.g. a bullet position
type IndexError struct {
	Kind   string
	Owner  string
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range: %s has %d %ss", e.Kind, e.Index, e.Owner, e.Length, e.Kind)
}

// InvalidArgumentError reports a missing, mistyped, unknown or empty argument
type InvalidArgumentError struct {
	Tool    string
	Param   string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Message)
	}
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Param, e.Tool, e.Message)
}
