// Package validation provides the schema and invariant checks applied to every candidate resume before commit.
package validation

import (
	"fmt"
	"strings"
)

// ValidationError is returned when a candidate document fails validation.
// It carries every violation found in the failing category.
//
//nolint:revive // ValidationError reads better than Error at call sites
type ValidationError struct {
	Category   Category
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("validation failed (%s):\n", e.Category))
	for i, v := range e.Violations {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, v.Field, v.Message))
	}
	return sb.String()
}
