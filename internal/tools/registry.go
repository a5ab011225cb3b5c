// Package tools defines the closed registry of per-section resume operations.
//
// Every operation is a Tool: a fixed external name, the section and
// operation identifier it is dispatched under, an ordered parameter list,
// and either a read function or a mutation function. Mutations receive a
// private candidate copy of the document and edit it in place; they never
// see the committed document.
package tools

import (
	"fmt"

	"github.com/jonathan/resume-forge/internal/types"
)

// Operation identifies a tool within its section
type Operation string

// Operation identifiers. Not every section supports every operation; the
// registry below is the closed list of valid (section, operation) pairs.
const (
	OpGet              Operation = "get"
	OpGetAll           Operation = "get_all"
	OpGetByID          Operation = "get_by_id"
	OpUpdate           Operation = "update"
	OpAdd              Operation = "add"
	OpRemove           Operation = "remove"
	OpAddBullet        Operation = "add_bullet"
	OpUpdateBullet     Operation = "update_bullet"
	OpRemoveBullet     Operation = "remove_bullet"
	OpAddTechnology    Operation = "add_technology"
	OpRemoveTechnology Operation = "remove_technology"
)

// ReadFunc returns a view of the document. The document passed in is already
// a private copy.
type ReadFunc func(r *types.Resume, args Args) (any, error)

// MutateFunc applies one change to a candidate document and returns a short
// human-readable description of what changed
type MutateFunc func(candidate *types.Resume, args Args) (string, error)

// Tool is one registered operation
type Tool struct {
	Name        string        `json:"name"`
	Section     types.Section `json:"section"`
	Operation   Operation     `json:"operation"`
	Description string        `json:"description"`
	Params      []Param       `json:"params"`

	Read   ReadFunc   `json:"-"`
	Mutate MutateFunc `json:"-"`
}

// ReadOnly reports whether the tool bypasses the mutation pipeline
func (t *Tool) ReadOnly() bool {
	return t.Mutate == nil
}

// Invocation describes one resolved mutating call: the tool (which carries
// the target section) and its bound arguments
type Invocation struct {
	Tool *Tool
	Args Args
}

// Describe returns a compact form for logging
func (inv *Invocation) Describe() string {
	return fmt.Sprintf("%s/%s(%v)", inv.Tool.Section, inv.Tool.Operation, map[string]any(inv.Args))
}

// registry lists every tool in catalog order
var registry = []*Tool{
	// Summary
	{
		Name: "get_summary", Section: types.SectionSummary, Operation: OpGet,
		Description: "Get the current professional summary",
		Read:        getSummary,
	},
	{
		Name: "update_summary", Section: types.SectionSummary, Operation: OpUpdate,
		Description: "Replace the professional summary",
		Params:      []Param{{Name: "new_summary", Type: ParamString, Required: true, Description: "The new summary text"}},
		Mutate:      updateSummary,
	},

	// Experience
	{
		Name: "get_experiences", Section: types.SectionExperience, Operation: OpGetAll,
		Description: "Get all work experiences",
		Read:        getExperiences,
	},
	{
		Name: "get_experience_by_id", Section: types.SectionExperience, Operation: OpGetByID,
		Description: "Get one work experience by ID (e.g. exp_1)",
		Params:      []Param{{Name: "experience_id", Type: ParamString, Required: true}},
		Read:        getExperienceByID,
	},
	{
		Name: "update_experience", Section: types.SectionExperience, Operation: OpUpdate,
		Description: "Update company, role or dates of an experience; omitted fields are kept",
		Params: []Param{
			{Name: "experience_id", Type: ParamString, Required: true},
			{Name: "company", Type: ParamString},
			{Name: "role", Type: ParamString},
			{Name: "dates", Type: ParamString},
		},
		Mutate: updateExperience,
	},
	{
		Name: "add_experience", Section: types.SectionExperience, Operation: OpAdd,
		Description: "Add a new work experience at the end of the list",
		Params: []Param{
			{Name: "company", Type: ParamString, Required: true},
			{Name: "role", Type: ParamString, Required: true},
			{Name: "dates", Type: ParamString, Required: true},
			{Name: "bullets", Type: ParamStringList},
		},
		Mutate: addExperience,
	},
	{
		Name: "remove_experience", Section: types.SectionExperience, Operation: OpRemove,
		Description: "Remove a work experience by ID",
		Params:      []Param{{Name: "experience_id", Type: ParamString, Required: true}},
		Mutate:      removeExperience,
	},
	{
		Name: "add_bullet", Section: types.SectionExperience, Operation: OpAddBullet,
		Description: "Append a bullet point to an experience",
		Params: []Param{
			{Name: "experience_id", Type: ParamString, Required: true},
			{Name: "bullet", Type: ParamString, Required: true},
		},
		Mutate: addBullet,
	},
	{
		Name: "update_bullet", Section: types.SectionExperience, Operation: OpUpdateBullet,
		Description: "Replace a bullet point; index is 0-based",
		Params: []Param{
			{Name: "experience_id", Type: ParamString, Required: true},
			{Name: "bullet_index", Type: ParamInt, Required: true},
			{Name: "new_bullet", Type: ParamString, Required: true},
		},
		Mutate: updateBullet,
	},
	{
		Name: "remove_bullet", Section: types.SectionExperience, Operation: OpRemoveBullet,
		Description: "Remove a bullet point; index is 0-based",
		Params: []Param{
			{Name: "experience_id", Type: ParamString, Required: true},
			{Name: "bullet_index", Type: ParamInt, Required: true},
		},
		Mutate: removeBullet,
	},

	// Skills
	{
		Name: "get_skills", Section: types.SectionSkills, Operation: OpGet,
		Description: "Get all skills",
		Read:        getSkills,
	},
	{
		Name: "add_skill", Section: types.SectionSkills, Operation: OpAdd,
		Description: "Add one skill; skills are unique and case-sensitive",
		Params:      []Param{{Name: "skill", Type: ParamString, Required: true}},
		Mutate:      addSkill,
	},
	{
		Name: "remove_skill", Section: types.SectionSkills, Operation: OpRemove,
		Description: "Remove one skill by exact name",
		Params:      []Param{{Name: "skill", Type: ParamString, Required: true}},
		Mutate:      removeSkill,
	},

	// Projects
	{
		Name: "get_projects", Section: types.SectionProjects, Operation: OpGetAll,
		Description: "Get all projects",
		Read:        getProjects,
	},
	{
		Name: "get_project_by_id", Section: types.SectionProjects, Operation: OpGetByID,
		Description: "Get one project by ID (e.g. proj_1)",
		Params:      []Param{{Name: "project_id", Type: ParamString, Required: true}},
		Read:        getProjectByID,
	},
	{
		Name: "update_project", Section: types.SectionProjects, Operation: OpUpdate,
		Description: "Update name, description or the technologies list of a project; omitted fields are kept",
		Params: []Param{
			{Name: "project_id", Type: ParamString, Required: true},
			{Name: "name", Type: ParamString},
			{Name: "description", Type: ParamString},
			{Name: "technologies", Type: ParamStringList},
		},
		Mutate: updateProject,
	},
	{
		Name: "add_project", Section: types.SectionProjects, Operation: OpAdd,
		Description: "Add a new project at the end of the list",
		Params: []Param{
			{Name: "name", Type: ParamString, Required: true},
			{Name: "description", Type: ParamString, Required: true},
			{Name: "technologies", Type: ParamStringList},
		},
		Mutate: addProject,
	},
	{
		Name: "remove_project", Section: types.SectionProjects, Operation: OpRemove,
		Description: "Remove a project by ID",
		Params:      []Param{{Name: "project_id", Type: ParamString, Required: true}},
		Mutate:      removeProject,
	},
	{
		Name: "add_technology", Section: types.SectionProjects, Operation: OpAddTechnology,
		Description: "Append a technology to a project",
		Params: []Param{
			{Name: "project_id", Type: ParamString, Required: true},
			{Name: "technology", Type: ParamString, Required: true},
		},
		Mutate: addTechnology,
	},
	{
		Name: "remove_technology", Section: types.SectionProjects, Operation: OpRemoveTechnology,
		Description: "Remove a technology from a project by exact name",
		Params: []Param{
			{Name: "project_id", Type: ParamString, Required: true},
			{Name: "technology", Type: ParamString, Required: true},
		},
		Mutate: removeTechnology,
	},

	// Education
	{
		Name: "get_education", Section: types.SectionEducation, Operation: OpGetAll,
		Description: "Get all education entries",
		Read:        getEducation,
	},
	{
		Name: "get_education_by_id", Section: types.SectionEducation, Operation: OpGetByID,
		Description: "Get one education entry by ID (e.g. edu_1)",
		Params:      []Param{{Name: "education_id", Type: ParamString, Required: true}},
		Read:        getEducationByID,
	},
	{
		Name: "update_education", Section: types.SectionEducation, Operation: OpUpdate,
		Description: "Update institution, degree, dates or details of an education entry; omitted fields are kept",
		Params: []Param{
			{Name: "education_id", Type: ParamString, Required: true},
			{Name: "institution", Type: ParamString},
			{Name: "degree", Type: ParamString},
			{Name: "dates", Type: ParamString},
			{Name: "details", Type: ParamString},
		},
		Mutate: updateEducation,
	},
	{
		Name: "add_education", Section: types.SectionEducation, Operation: OpAdd,
		Description: "Add a new education entry at the end of the list",
		Params: []Param{
			{Name: "institution", Type: ParamString, Required: true},
			{Name: "degree", Type: ParamString, Required: true},
			{Name: "dates", Type: ParamString, Required: true},
			{Name: "details", Type: ParamString},
		},
		Mutate: addEducation,
	},
	{
		Name: "remove_education", Section: types.SectionEducation, Operation: OpRemove,
		Description: "Remove an education entry by ID",
		Params:      []Param{{Name: "education_id", Type: ParamString, Required: true}},
		Mutate:      removeEducation,
	},
}

var (
	bySection = make(map[types.Section]map[Operation]*Tool)
	byName    = make(map[string]*Tool)
)

func init() {
	for _, tool := range registry {
		if _, dup := byName[tool.Name]; dup {
			panic(fmt.Sprintf("tools: duplicate tool name %s", tool.Name))
		}
		if (tool.Read == nil) == (tool.Mutate == nil) {
			panic(fmt.Sprintf("tools: %s must have exactly one of Read or Mutate", tool.Name))
		}
		ops, ok := bySection[tool.Section]
		if !ok {
			ops = make(map[Operation]*Tool)
			bySection[tool.Section] = ops
		}
		if _, dup := ops[tool.Operation]; dup {
			panic(fmt.Sprintf("tools: duplicate operation %s/%s", tool.Section, tool.Operation))
		}
		ops[tool.Operation] = tool
		byName[tool.Name] = tool
	}
}

// Lookup finds the tool registered for an operation within a section
func Lookup(section types.Section, op Operation) (*Tool, bool) {
	tool, ok := bySection[section][op]
	return tool, ok
}

// ByName finds a tool by its external name (e.g. "add_skill")
func ByName(name string) (*Tool, bool) {
	tool, ok := byName[name]
	return tool, ok
}

// ForSection returns the tools of one section in catalog order
func ForSection(section types.Section) []*Tool {
	var out []*Tool
	for _, tool := range registry {
		if tool.Section == section {
			out = append(out, tool)
		}
	}
	return out
}

// Catalog returns every tool in catalog order
func Catalog() []*Tool {
	out := make([]*Tool, len(registry))
	copy(out, registry)
	return out
}
