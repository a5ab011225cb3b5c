package specialist

import (
	"fmt"

	"github.com/jonathan/resume-forge/internal/types"
)

// UnknownToolError reports an operation name outside a section's table
type UnknownToolError struct {
	Section   types.Section
	Operation string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown operation %q for section %s", e.Operation, e.Section)
}
