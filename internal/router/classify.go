package router

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/resume-forge/internal/types"
)

// sectionKeywords are the phrases that attribute free text to a section.
// Matching is case-insensitive on word boundaries; a trailing plural "s" is
// accepted.
var sectionKeywords = map[types.Section][]string{
	types.SectionSummary:    {"summary", "profile", "about me", "introduction", "bio", "objective"},
	types.SectionExperience: {"experience", "job", "work", "role", "bullet", "company", "position", "employer", "internship"},
	types.SectionSkills:     {"skill", "technology", "technologies", "tech stack", "expertise"},
	types.SectionProjects:   {"project", "portfolio"},
	types.SectionEducation:  {"education", "degree", "school", "university", "college", "certification", "gpa"},
}

var (
	keywordPatterns map[types.Section][]*regexp.Regexp
	patternsOnce    sync.Once
)

func initPatterns() {
	patternsOnce.Do(func() {
		keywordPatterns = make(map[types.Section][]*regexp.Regexp, len(sectionKeywords))
		for section, words := range sectionKeywords {
			for _, w := range words {
				p := regexp.MustCompile(`(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`) + `s?\b`)
				keywordPatterns[section] = append(keywordPatterns[section], p)
			}
		}
	})
}

// scoredSection is one section's keyword hit count
type scoredSection struct {
	Section types.Section
	Score   int
}

// score counts keyword hits per section and returns them best first. Ties
// keep document order so results are deterministic.
func score(text string) []scoredSection {
	initPatterns()

	scores := make([]scoredSection, 0, len(types.Sections))
	for _, section := range types.Sections {
		hits := 0
		for _, p := range keywordPatterns[section] {
			hits += len(p.FindAllStringIndex(text, -1))
		}
		scores = append(scores, scoredSection{Section: section, Score: hits})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}
