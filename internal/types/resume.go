// Package types provides type definitions for structured data used throughout the resume-forge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ID prefixes for the sections whose entries carry stable identifiers
const (
	ExperienceIDPrefix = "exp_"
	ProjectIDPrefix    = "proj_"
	EducationIDPrefix  = "edu_"
)

// Resume is the aggregate root: the single document being edited
type Resume struct {
	Summary     string       `json:"summary" validate:"required"`
	Experiences []Experience `json:"experiences" validate:"dive"`
	Skills      []string     `json:"skills"`
	Projects    []Project    `json:"projects" validate:"dive"`
	Education   []Education  `json:"education" validate:"dive"`
	NextIDs     IDCounters   `json:"next_ids"`
}

// Experience represents a single work experience entry.
// Bullets are owned by the entry and addressed by index.
type Experience struct {
	ID      string   `json:"id" validate:"required,startswith=exp_"`
	Company string   `json:"company" validate:"required"`
	Role    string   `json:"role" validate:"required"`
	Dates   string   `json:"dates" validate:"required"`
	Bullets []string `json:"bullets"`
}

// Project represents a single project entry
type Project struct {
	ID           string   `json:"id" validate:"required,startswith=proj_"`
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Technologies []string `json:"technologies"`
}

// Education represents a single education entry. Details may be empty.
type Education struct {
	ID          string `json:"id" validate:"required,startswith=edu_"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Dates       string `json:"dates" validate:"required"`
	Details     string `json:"details"`
}

// IDCounters holds the next sequence number per identified section.
// Counters only move forward, so a removed ID is never handed out again.
type IDCounters struct {
	Experience int `json:"experience"`
	Projects   int `json:"projects"`
	Education  int `json:"education"`
}

// Clone returns a deep copy of the resume
func (r *Resume) Clone() *Resume {
	if r == nil {
		return nil
	}
	c := &Resume{
		Summary:     r.Summary,
		Experiences: make([]Experience, len(r.Experiences)),
		Skills:      cloneStrings(r.Skills),
		Projects:    make([]Project, len(r.Projects)),
		Education:   make([]Education, len(r.Education)),
		NextIDs:     r.NextIDs, // plain ints, shallow copy is OK
	}
	for i, exp := range r.Experiences {
		c.Experiences[i] = exp.Clone()
	}
	for i, proj := range r.Projects {
		c.Projects[i] = proj.Clone()
	}
	copy(c.Education, r.Education)
	return c
}

// Clone returns a deep copy of the experience
func (e Experience) Clone() Experience {
	e.Bullets = cloneStrings(e.Bullets)
	return e
}

// Clone returns a deep copy of the project
func (p Project) Clone() Project {
	p.Technologies = cloneStrings(p.Technologies)
	return p
}

// Normalize replaces nil lists with empty ones and brings the ID counters up to
// date with the identifiers already present. It is applied to every document
// read from storage so the serialized form never contains null lists.
func (r *Resume) Normalize() {
	if r.Experiences == nil {
		r.Experiences = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	for i := range r.Experiences {
		if r.Experiences[i].Bullets == nil {
			r.Experiences[i].Bullets = []string{}
		}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
	}

	maxExp := 0
	for _, exp := range r.Experiences {
		maxExp = max(maxExp, IDSequence(exp.ID, ExperienceIDPrefix))
	}
	maxProj := 0
	for _, proj := range r.Projects {
		maxProj = max(maxProj, IDSequence(proj.ID, ProjectIDPrefix))
	}
	maxEdu := 0
	for _, edu := range r.Education {
		maxEdu = max(maxEdu, IDSequence(edu.ID, EducationIDPrefix))
	}
	r.NextIDs.Experience = max(r.NextIDs.Experience, maxExp+1)
	r.NextIDs.Projects = max(r.NextIDs.Projects, maxProj+1)
	r.NextIDs.Education = max(r.NextIDs.Education, maxEdu+1)
}

// NextExperienceID allocates the next experience identifier
func (r *Resume) NextExperienceID() string {
	return allocateID(&r.NextIDs.Experience, ExperienceIDPrefix)
}

// NextProjectID allocates the next project identifier
func (r *Resume) NextProjectID() string {
	return allocateID(&r.NextIDs.Projects, ProjectIDPrefix)
}

// NextEducationID allocates the next education identifier
func (r *Resume) NextEducationID() string {
	return allocateID(&r.NextIDs.Education, EducationIDPrefix)
}

// FindExperience returns the index of the experience with the given ID, or -1
func (r *Resume) FindExperience(id string) int {
	for i := range r.Experiences {
		if r.Experiences[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProject returns the index of the project with the given ID, or -1
func (r *Resume) FindProject(id string) int {
	for i := range r.Projects {
		if r.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEducation returns the index of the education entry with the given ID, or -1
func (r *Resume) FindEducation(id string) int {
	for i := range r.Education {
		if r.Education[i].ID == id {
			return i
		}
	}
	return -1
}

// HasSkill reports whether the skill is present (case-sensitive)
func (r *Resume) HasSkill(skill string) bool {
	for _, s := range r.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// IDSequence parses the numeric suffix of an identifier such as "exp_3".
// Returns 0 when the identifier does not carry the prefix or a positive number.
func IDSequence(id, prefix string) int {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func allocateID(counter *int, prefix string) string {
	if *counter < 1 {
		*counter = 1
	}
	id := fmt.Sprintf("%s%d", prefix, *counter)
	*counter++
	return id
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
