// Package validation provides the schema and invariant checks applied to every candidate resume before commit.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-forge/internal/types"
)

// Category identifies one pass of the validator
type Category string

// Categories run in this order; the first failing one is reported
const (
	CategoryRequiredFields  Category = "required_fields"
	CategoryIDUniqueness    Category = "id_uniqueness"
	CategorySkillUniqueness Category = "skill_uniqueness"
	CategoryListElements    Category = "list_elements"
)

// Violation is a single failed check at a field path
type Violation struct {
	Category Category `json:"category"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
}

// Result is the outcome of validating one candidate
type Result struct {
	Valid      bool        `json:"valid"`
	Category   Category    `json:"category,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Err returns a *ValidationError for a failed result, nil otherwise
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Category: r.Category, Violations: r.Violations}
}

// Validator checks candidate documents. It holds no document state and is
// safe for concurrent use.
type Validator struct {
	structs *validator.Validate
}

// New creates a Validator that reports fields by their JSON names
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structs: v}
}

// Validate runs every category in order and stops at the first one with
// violations. It never panics; malformed input yields a failed Result.
func (v *Validator) Validate(r *types.Resume) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			result = fail(CategoryRequiredFields, []Violation{{
				Category: CategoryRequiredFields,
				Field:    "(root)",
				Message:  fmt.Sprintf("document could not be inspected: %v", rec),
			}})
		}
	}()

	if r == nil {
		return fail(CategoryRequiredFields, []Violation{{
			Category: CategoryRequiredFields,
			Field:    "(root)",
			Message:  "document is missing",
		}})
	}

	passes := []struct {
		category Category
		check    func(*types.Resume) []Violation
	}{
		{CategoryRequiredFields, v.checkRequiredFields},
		{CategoryIDUniqueness, checkIDUniqueness},
		{CategorySkillUniqueness, checkSkillUniqueness},
		{CategoryListElements, checkListElements},
	}

	for _, pass := range passes {
		if violations := pass.check(r); len(violations) > 0 {
			return fail(pass.category, violations)
		}
	}
	return Result{Valid: true}
}

func fail(category Category, violations []Violation) Result {
	return Result{Valid: false, Category: category, Violations: violations}
}

// checkRequiredFields applies the struct tags on the document types
func (v *Validator) checkRequiredFields(r *types.Resume) []Violation {
	err := v.structs.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Violation{{Category: CategoryRequiredFields, Field: "(root)", Message: err.Error()}}
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Category: CategoryRequiredFields,
			Field:    fieldPath(fe.Namespace()),
			Message:  describeTag(fe),
		})
	}
	return violations
}

// fieldPath drops the root struct name from a validator namespace
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required and must not be empty"
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func checkIDUniqueness(r *types.Resume) []Violation {
	var violations []Violation

	ids := make([]string, len(r.Experiences))
	for i, exp := range r.Experiences {
		ids[i] = exp.ID
	}
	violations = append(violations, duplicates(CategoryIDUniqueness, "experiences", ids)...)

	ids = make([]string, len(r.Projects))
	for i, proj := range r.Projects {
		ids[i] = proj.ID
	}
	violations = append(violations, duplicates(CategoryIDUniqueness, "projects", ids)...)

	ids = make([]string, len(r.Education))
	for i, edu := range r.Education {
		ids[i] = edu.ID
	}
	violations = append(violations, duplicates(CategoryIDUniqueness, "education", ids)...)

	return violations
}

func checkSkillUniqueness(r *types.Resume) []Violation {
	return duplicates(CategorySkillUniqueness, "skills", r.Skills)
}

// duplicates reports every repeated value after its first occurrence
func duplicates(category Category, field string, values []string) []Violation {
	var violations []Violation
	seen := make(map[string]int, len(values))
	for i, value := range values {
		if first, ok := seen[value]; ok {
			violations = append(violations, Violation{
				Category: category,
				Field:    fmt.Sprintf("%s[%d]", field, i),
				Message:  fmt.Sprintf("duplicate value %q (first at index %d)", value, first),
			})
			continue
		}
		seen[value] = i
	}
	return violations
}

func checkListElements(r *types.Resume) []Violation {
	var violations []Violation
	for i, exp := range r.Experiences {
		violations = append(violations, malformed(fmt.Sprintf("experiences[%d].bullets", i), exp.Bullets)...)
	}
	violations = append(violations, malformed("skills", r.Skills)...)
	for i, proj := range r.Projects {
		violations = append(violations, malformed(fmt.Sprintf("projects[%d].technologies", i), proj.Technologies)...)
	}
	for i, edu := range r.Education {
		if edu.Details != "" && !wellFormed(edu.Details) {
			violations = append(violations, Violation{
				Category: CategoryListElements,
				Field:    fmt.Sprintf("education[%d].details", i),
				Message:  "contains invalid UTF-8 or control characters",
			})
		}
	}
	return violations
}

func malformed(field string, values []string) []Violation {
	var violations []Violation
	for i, value := range values {
		switch {
		case strings.TrimSpace(value) == "":
			violations = append(violations, Violation{
				Category: CategoryListElements,
				Field:    fmt.Sprintf("%s[%d]", field, i),
				Message:  "must not be blank",
			})
		case !wellFormed(value):
			violations = append(violations, Violation{
				Category: CategoryListElements,
				Field:    fmt.Sprintf("%s[%d]", field, i),
				Message:  "contains invalid UTF-8 or control characters",
			})
		}
	}
	return violations
}

// wellFormed accepts valid UTF-8 without control characters other than tab and newline
func wellFormed(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) && r != '\t' && r != '\n' {
			return false
		}
	}
	return true
}
