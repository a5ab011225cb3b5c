package coordinator

import "fmt"

// UnknownSectionError reports a section name outside the fixed set
type UnknownSectionError struct {
	Name string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section %q", e.Name)
}
