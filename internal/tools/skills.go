package tools

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

func getSkills(r *types.Resume, _ Args) (any, error) {
	return r.Skills, nil
}

func addSkill(candidate *types.Resume, args Args) (string, error) {
	skill, err := requireText("add_skill", "skill", args)
	if err != nil {
		return "", err
	}
	if candidate.HasSkill(skill) {
		return "", &DuplicateError{Kind: "skill", Value: skill}
	}
	candidate.Skills = append(candidate.Skills, skill)
	return fmt.Sprintf("Skill '%s' added.", skill), nil
}

func removeSkill(candidate *types.Resume, args Args) (string, error) {
	skill := strings.TrimSpace(args.String("skill"))
	idx := slices.Index(candidate.Skills, skill)
	if idx < 0 {
		return "", &NotFoundError{Kind: "skill", ID: skill}
	}
	candidate.Skills = slices.Delete(candidate.Skills, idx, idx+1)
	return fmt.Sprintf("Skill '%s' removed.", skill), nil
}
