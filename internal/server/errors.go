package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/specialist"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/validation"
)

// ErrBadRequest indicates a malformed request body or path
type ErrBadRequest struct {
	Field   string
	Message string
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("bad request: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		badRequest     *ErrBadRequest
		invalidArg     *tools.InvalidArgumentError
		indexErr       *tools.IndexError
		missingOp      *router.MissingOperationError
		notFound       *tools.NotFoundError
		unknownSection *coordinator.UnknownSectionError
		unknownTool    *specialist.UnknownToolError
		duplicate      *tools.DuplicateError
		ambiguous      *router.AmbiguousError
		validationErr  *validation.ValidationError
		extraction     *router.ExtractionError
	)

	switch {
	case errors.As(err, &badRequest), errors.As(err, &invalidArg), errors.As(err, &indexErr), errors.As(err, &missingOp):
		return http.StatusBadRequest
	case errors.As(err, &notFound), errors.As(err, &unknownSection), errors.As(err, &unknownTool):
		return http.StatusNotFound
	case errors.As(err, &duplicate), errors.As(err, &ambiguous):
		return http.StatusConflict
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &extraction):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		// includes *document.PersistenceError
		return http.StatusInternalServerError
	}
}

// committedButUnsaved reports whether err describes an edit that is visible
// in memory but was not persisted
func committedButUnsaved(err error) bool {
	var persistErr *document.PersistenceError
	return errors.As(err, &persistErr)
}
