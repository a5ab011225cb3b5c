// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/validation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// clip shortens s to at most n runes, marking the cut with "..."
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintDecision outputs how a request was routed, with keyword scores.
func (p *Printer) PrintDecision(d router.Decision) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Reason:    %s\n", d.Reason))
	if d.Applicable {
		sb.WriteString(fmt.Sprintf("Section:   %s\n", d.Section))
		if d.Operation != "" {
			sb.WriteString(fmt.Sprintf("Operation: %s\n", d.Operation))
		}
	}
	if d.Tool != "" {
		sb.WriteString(fmt.Sprintf("Tool:      %s\n", d.Tool))
	}
	if d.Ambiguous {
		names := make([]string, len(d.Candidates))
		for i, c := range d.Candidates {
			names[i] = string(c)
		}
		sb.WriteString(fmt.Sprintf("Ambiguous: %s\n", strings.Join(names, ", ")))
	}

	if len(d.Scores) > 0 {
		sections := make([]types.Section, 0, len(d.Scores))
		for s, score := range d.Scores {
			if score > 0 {
				sections = append(sections, s)
			}
		}
		sort.Slice(sections, func(i, j int) bool { return d.Scores[sections[i]] > d.Scores[sections[j]] })
		if len(sections) > 0 {
			sb.WriteString("\nKeyword hits:\n")
			for _, s := range sections {
				sb.WriteString(fmt.Sprintf("  • %-12s %d\n", s, d.Scores[s]))
			}
		}
	}

	p.printBox("ROUTING DECISION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs the result of one mutation.
func (p *Printer) PrintOutcome(out *invoker.Outcome) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:        %s\n", out.ID))
	sb.WriteString(fmt.Sprintf("Tool:      %s (%s)\n", out.Tool, out.Section))
	sb.WriteString(fmt.Sprintf("Committed: %t\n", out.Committed))
	if out.Committed {
		sb.WriteString(fmt.Sprintf("Revision:  %d\n", out.Revision))
		sb.WriteString(fmt.Sprintf("Persisted: %t\n", out.Persisted))
	}
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", out.Duration))
	if out.Message != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", out.Message))
	}
	if out.Err != nil {
		sb.WriteString(fmt.Sprintf("\n⚠ %s\n", out.Err))
	}

	title := "EDIT COMMITTED"
	if !out.Success() {
		title = "EDIT REJECTED"
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the violations found in a document.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(result validation.Result) {
	if result.Valid {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d %s violation(s):\n\n", len(result.Violations), result.Category))
	for i, v := range result.Violations {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", v.Message))
		if i < len(result.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs a condensed overview of every section.
func (p *Printer) PrintResume(r *types.Resume) {
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Summary: %s\n\n", r.Summary))

	sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(r.Experiences)))
	writeList(&sb, len(r.Experiences), func(i int) string {
		e := r.Experiences[i]
		return fmt.Sprintf("%s  %s, %s (%d bullets)", e.ID, e.Role, e.Company, len(e.Bullets))
	})

	sb.WriteString(fmt.Sprintf("\nSkills (%d):\n", len(r.Skills)))
	if len(r.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(r.Skills, ", ")))
	}

	sb.WriteString(fmt.Sprintf("\nProjects (%d):\n", len(r.Projects)))
	writeList(&sb, len(r.Projects), func(i int) string {
		pr := r.Projects[i]
		return fmt.Sprintf("%s  %s", pr.ID, pr.Name)
	})

	sb.WriteString(fmt.Sprintf("\nEducation (%d):\n", len(r.Education)))
	writeList(&sb, len(r.Education), func(i int) string {
		e := r.Education[i]
		return fmt.Sprintf("%s  %s, %s", e.ID, e.Degree, e.Institution)
	})

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, n int, line func(i int) string) {
	count := min(n, maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", line(i)))
	}
	if n > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", n-maxItemsToShow))
	}
}
