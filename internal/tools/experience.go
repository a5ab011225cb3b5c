package tools

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

func getExperiences(r *types.Resume, _ Args) (any, error) {
	return r.Experiences, nil
}

func getExperienceByID(r *types.Resume, args Args) (any, error) {
	id := args.String("experience_id")
	idx := r.FindExperience(id)
	if idx < 0 {
		return nil, &NotFoundError{Kind: "experience", ID: id}
	}
	return r.Experiences[idx], nil
}

func updateExperience(candidate *types.Resume, args Args) (string, error) {
	id := args.String("experience_id")
	idx := candidate.FindExperience(id)
	if idx < 0 {
		return "", &NotFoundError{Kind: "experience", ID: id}
	}
	exp := &candidate.Experiences[idx]

	var changed []string
	if company, ok := optionalText(args, "company"); ok {
		exp.Company = company
		changed = append(changed, "company")
	}
	if role, ok := optionalText(args, "role"); ok {
		exp.Role = role
		changed = append(changed, "role")
	}
	if dates, ok := optionalText(args, "dates"); ok {
		exp.Dates = dates
		changed = append(changed, "dates")
	}
	if len(changed) == 0 {
		return "", &InvalidArgumentError{Tool: "update_experience", Message: "no fields to update"}
	}
	return fmt.Sprintf("Experience %s updated: %s.", id, strings.Join(changed, ", ")), nil
}

func addExperience(candidate *types.Resume, args Args) (string, error) {
	company, err := requireText("add_experience", "company", args)
	if err != nil {
		return "", err
	}
	role, err := requireText("add_experience", "role", args)
	if err != nil {
		return "", err
	}
	dates, err := requireText("add_experience", "dates", args)
	if err != nil {
		return "", err
	}

	bullets := []string{}
	if list, ok := args.Strings("bullets"); ok {
		for _, b := range list {
			bullets = append(bullets, strings.TrimSpace(b))
		}
	}

	id := candidate.NextExperienceID()
	candidate.Experiences = append(candidate.Experiences, types.Experience{
		ID:      id,
		Company: company,
		Role:    role,
		Dates:   dates,
		Bullets: bullets,
	})
	return fmt.Sprintf("Experience added successfully with ID: %s", id), nil
}

func removeExperience(candidate *types.Resume, args Args) (string, error) {
	id := args.String("experience_id")
	idx := candidate.FindExperience(id)
	if idx < 0 {
		return "", &NotFoundError{Kind: "experience", ID: id}
	}
	removed := candidate.Experiences[idx]
	candidate.Experiences = append(candidate.Experiences[:idx], candidate.Experiences[idx+1:]...)
	return fmt.Sprintf("Experience %s (%s at %s) removed.", id, removed.Role, removed.Company), nil
}

func addBullet(candidate *types.Resume, args Args) (string, error) {
	bullet, err := requireText("add_bullet", "bullet", args)
	if err != nil {
		return "", err
	}
	exp, err := findExperience(candidate, args.String("experience_id"))
	if err != nil {
		return "", err
	}
	exp.Bullets = append(exp.Bullets, bullet)
	return fmt.Sprintf("Bullet added to %s at index %d.", exp.ID, len(exp.Bullets)-1), nil
}

func updateBullet(candidate *types.Resume, args Args) (string, error) {
	bullet, err := requireText("update_bullet", "new_bullet", args)
	if err != nil {
		return "", err
	}
	exp, err := findExperience(candidate, args.String("experience_id"))
	if err != nil {
		return "", err
	}
	idx := args.Int("bullet_index")
	if idx < 0 || idx >= len(exp.Bullets) {
		return "", &IndexError{Kind: "bullet", Owner: exp.ID, Index: idx, Length: len(exp.Bullets)}
	}
	exp.Bullets[idx] = bullet
	return fmt.Sprintf("Bullet %d of %s updated.", idx, exp.ID), nil
}

func removeBullet(candidate *types.Resume, args Args) (string, error) {
	exp, err := findExperience(candidate, args.String("experience_id"))
	if err != nil {
		return "", err
	}
	idx := args.Int("bullet_index")
	if idx < 0 || idx >= len(exp.Bullets) {
		return "", &IndexError{Kind: "bullet", Owner: exp.ID, Index: idx, Length: len(exp.Bullets)}
	}
	removed := exp.Bullets[idx]
	exp.Bullets = append(exp.Bullets[:idx], exp.Bullets[idx+1:]...)
	return fmt.Sprintf("Bullet removed: '%s'", truncate(removed, 50)), nil
}

func findExperience(r *types.Resume, id string) (*types.Experience, error) {
	idx := r.FindExperience(id)
	if idx < 0 {
		return nil, &NotFoundError{Kind: "experience", ID: id}
	}
	return &r.Experiences[idx], nil
}
