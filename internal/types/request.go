// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Section names one of the five fixed resume domains
type Section string

// Section constants form a closed set; adding a section requires a new
// specialist dispatcher and tool registry entries.
const (
	SectionSummary    Section = "summary"
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionProjects   Section = "projects"
	SectionEducation  Section = "education"
)

// Sections lists every section in document order
var Sections = []Section{
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionEducation,
}

// ParseSection resolves a section name. The persisted key "experiences" is
// accepted as an alias of "experience".
func ParseSection(name string) (Section, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "summary":
		return SectionSummary, true
	case "experience", "experiences":
		return SectionExperience, true
	case "skills":
		return SectionSkills, true
	case "projects":
		return SectionProjects, true
	case "education":
		return SectionEducation, true
	}
	return "", false
}

// EditRequest is the structured form of a user request, as produced by the
// intent-extraction step. Any subset of the fields may be set: a request can
// name a tool directly, a section plus operation, or only carry text.
type EditRequest struct {
	Text      string         `json:"text,omitempty" yaml:"text,omitempty"`
	Tool      string         `json:"tool,omitempty" yaml:"tool,omitempty"`
	Section   string         `json:"section,omitempty" yaml:"section,omitempty"`
	Operation string         `json:"operation,omitempty" yaml:"operation,omitempty"`
	Args      map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}
