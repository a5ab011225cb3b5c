package tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

func getEducation(r *types.Resume, _ Args) (any, error) {
	return r.Education, nil
}

func getEducationByID(r *types.Resume, args Args) (any, error) {
	id := args.String("education_id")
	idx := r.FindEducation(id)
	if idx < 0 {
		return nil, &NotFoundError{Kind: "education", ID: id}
	}
	return r.Education[idx], nil
}

func updateEducation(candidate *types.Resume, args Args) (string, error) {
	id := args.String("education_id")
	idx := candidate.FindEducation(id)
	if idx < 0 {
		return "", &NotFoundError{Kind: "education", ID: id}
	}
	edu := &candidate.Education[idx]

	var changed []string
	if institution, ok := optionalText(args, "institution"); ok {
		edu.Institution = institution
		changed = append(changed, "institution")
	}
	if degree, ok := optionalText(args, "degree"); ok {
		edu.Degree = degree
		changed = append(changed, "degree")
	}
	if dates, ok := optionalText(args, "dates"); ok {
		edu.Dates = dates
		changed = append(changed, "dates")
	}
	// details may be cleared explicitly, so an empty value counts as supplied
	if details, ok := args.Lookup("details"); ok {
		edu.Details = strings.TrimSpace(details)
		changed = append(changed, "details")
	}
	if len(changed) == 0 {
		return "", &InvalidArgumentError{Tool: "update_education", Message: "no fields to update"}
	}
	return fmt.Sprintf("Education %s updated: %s.", id, strings.Join(changed, ", ")), nil
}

func addEducation(candidate *types.Resume, args Args) (string, error) {
	institution, err := requireText("add_education", "institution", args)
	if err != nil {
		return "", err
	}
	degree, err := requireText("add_education", "degree", args)
	if err != nil {
		return "", err
	}
	dates, err := requireText("add_education", "dates", args)
	if err != nil {
		return "", err
	}

	id := candidate.NextEducationID()
	candidate.Education = append(candidate.Education, types.Education{
		ID:          id,
		Institution: institution,
		Degree:      degree,
		Dates:       dates,
		Details:     strings.TrimSpace(args.String("details")),
	})
	return fmt.Sprintf("Education added successfully with ID: %s", id), nil
}

func removeEducation(candidate *types.Resume, args Args) (string, error) {
	id := args.String("education_id")
	idx := candidate.FindEducation(id)
	if idx < 0 {
		return "", &NotFoundError{Kind: "education", ID: id}
	}
	removed := candidate.Education[idx]
	candidate.Education = slices.Delete(candidate.Education, idx, idx+1)
	return fmt.Sprintf("Education %s (%s) removed.", id, removed.Degree), nil
}
