package tools

import (
	"strings"

	"github.com/jonathan/resume-forge/internal/types"
)

func getSummary(r *types.Resume, _ Args) (any, error) {
	return r.Summary, nil
}

func updateSummary(candidate *types.Resume, args Args) (string, error) {
	summary, err := requireText("update_summary", "new_summary", args)
	if err != nil {
		return "", err
	}
	candidate.Summary = summary
	return "Summary updated.", nil
}

// requireText returns a trimmed, non-empty string argument
func requireText(tool, param string, args Args) (string, error) {
	value := strings.TrimSpace(args.String(param))
	if value == "" {
		return "", &InvalidArgumentError{Tool: tool, Param: param, Message: "cannot be empty"}
	}
	return value, nil
}

// optionalText returns a trimmed string argument when supplied and non-blank
func optionalText(args Args, param string) (string, bool) {
	value, ok := args.Lookup(param)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
