package tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

func getProjects(r *types.Resume, _ Args) (any, error) {
	return r.Projects, nil
}

func getProjectByID(r *types.Resume, args Args) (any, error) {
	proj, err := findProject(r, args.String("project_id"))
	if err != nil {
		return nil, err
	}
	return *proj, nil
}

func updateProject(candidate *types.Resume, args Args) (string, error) {
	proj, err := findProject(candidate, args.String("project_id"))
	if err != nil {
		return "", err
	}

	var changed []string
	if name, ok := optionalText(args, "name"); ok {
		proj.Name = name
		changed = append(changed, "name")
	}
	if description, ok := optionalText(args, "description"); ok {
		proj.Description = description
		changed = append(changed, "description")
	}
	if techs, ok := args.Strings("technologies"); ok {
		proj.Technologies = trimAll(techs)
		changed = append(changed, "technologies")
	}
	if len(changed) == 0 {
		return "", &InvalidArgumentError{Tool: "update_project", Message: "no fields to update"}
	}
	return fmt.Sprintf("Project %s updated: %s.", proj.ID, strings.Join(changed, ", ")), nil
}

func addProject(candidate *types.Resume, args Args) (string, error) {
	name, err := requireText("add_project", "name", args)
	if err != nil {
		return "", err
	}
	description, err := requireText("add_project", "description", args)
	if err != nil {
		return "", err
	}

	techs := []string{}
	if list, ok := args.Strings("technologies"); ok {
		techs = trimAll(list)
	}

	id := candidate.NextProjectID()
	candidate.Projects = append(candidate.Projects, types.Project{
		ID:           id,
		Name:         name,
		Description:  description,
		Technologies: techs,
	})
	return fmt.Sprintf("Project added successfully with ID: %s", id), nil
}

func removeProject(candidate *types.Resume, args Args) (string, error) {
	id := args.String("project_id")
	idx := candidate.FindProject(id)
	if idx < 0 {
		return "", &NotFoundError{Kind: "project", ID: id}
	}
	removed := candidate.Projects[idx]
	candidate.Projects = slices.Delete(candidate.Projects, idx, idx+1)
	return fmt.Sprintf("Project %s (%s) removed.", id, removed.Name), nil
}

func addTechnology(candidate *types.Resume, args Args) (string, error) {
	tech, err := requireText("add_technology", "technology", args)
	if err != nil {
		return "", err
	}
	proj, err := findProject(candidate, args.String("project_id"))
	if err != nil {
		return "", err
	}
	if slices.Contains(proj.Technologies, tech) {
		return "", &DuplicateError{Kind: "technology", Value: tech}
	}
	proj.Technologies = append(proj.Technologies, tech)
	return fmt.Sprintf("Technology '%s' added to %s.", tech, proj.ID), nil
}

func removeTechnology(candidate *types.Resume, args Args) (string, error) {
	proj, err := findProject(candidate, args.String("project_id"))
	if err != nil {
		return "", err
	}
	tech := strings.TrimSpace(args.String("technology"))
	idx := slices.Index(proj.Technologies, tech)
	if idx < 0 {
		return "", &NotFoundError{Kind: "technology", ID: tech}
	}
	proj.Technologies = slices.Delete(proj.Technologies, idx, idx+1)
	return fmt.Sprintf("Technology '%s' removed from %s.", tech, proj.ID), nil
}

func findProject(r *types.Resume, id string) (*types.Project, error) {
	idx := r.FindProject(id)
	if idx < 0 {
		return nil, &NotFoundError{Kind: "project", ID: id}
	}
	return &r.Projects[idx], nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
