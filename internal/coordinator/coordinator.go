// Package coordinator owns the section specialists and forwards each request
// to the one matching its section.
package coordinator

import (
	"context"
	"log"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/specialist"
	"github.com/jonathan/resume-forge/internal/types"
)

// SectionView is a copy of one section of the committed document
type SectionView struct {
	Section types.Section `json:"section"`
	Data    any           `json:"data"`
}

// Coordinator routes section-qualified requests to specialists. It does not
// inspect or rewrite specialist results.
type Coordinator struct {
	store       *document.Store
	specialists map[types.Section]*specialist.Dispatcher
}

// New creates a Coordinator with one specialist per section
func New(store *document.Store, inv *invoker.Invoker) *Coordinator {
	return &Coordinator{
		store:       store,
		specialists: specialist.NewAll(store, inv),
	}
}

// Sections lists the fixed section set
func (c *Coordinator) Sections() []types.Section {
	out := make([]types.Section, len(types.Sections))
	copy(out, types.Sections)
	return out
}

// Specialist returns the dispatcher for a section name
func (c *Coordinator) Specialist(name string) (*specialist.Dispatcher, error) {
	section, ok := types.ParseSection(name)
	if !ok {
		return nil, &UnknownSectionError{Name: name}
	}
	return c.specialists[section], nil
}

// GetResume returns a deep copy of the committed document
func (c *Coordinator) GetResume() *types.Resume {
	return c.store.Snapshot()
}

// GetSection returns a copy of one section
func (c *Coordinator) GetSection(name string) (SectionView, error) {
	section, ok := types.ParseSection(name)
	if !ok {
		return SectionView{}, &UnknownSectionError{Name: name}
	}

	r := c.store.Snapshot()
	view := SectionView{Section: section}
	switch section {
	case types.SectionSummary:
		view.Data = r.Summary
	case types.SectionExperience:
		view.Data = r.Experiences
	case types.SectionSkills:
		view.Data = r.Skills
	case types.SectionProjects:
		view.Data = r.Projects
	case types.SectionEducation:
		view.Data = r.Education
	}
	return view, nil
}

// Dispatch forwards one operation to the specialist for section
func (c *Coordinator) Dispatch(ctx context.Context, section, operation string, args map[string]any) (*specialist.Result, error) {
	d, err := c.Specialist(section)
	if err != nil {
		log.Printf("[coordinator] rejected %s/%s: %v", section, operation, err)
		return nil, err
	}
	return d.Handle(ctx, operation, args)
}
