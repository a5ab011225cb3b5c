// Package router decides whether a request is a resume edit and, if so,
// which section it concerns, then hands it to the coordinator.
package router

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/specialist"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
)

// Reason explains a routing decision
type Reason string

// Routing reasons
const (
	ReasonTool           Reason = "tool"
	ReasonSection        Reason = "section"
	ReasonKeywords       Reason = "keywords"
	ReasonConversational Reason = "conversational"
	ReasonAmbiguous      Reason = "ambiguous"
	ReasonUnknownTool    Reason = "unknown_tool"
)

// Coordinator-level read tools that are not owned by any specialist
const (
	ToolGetResume  = "get_resume"
	ToolGetSection = "get_section"
)

// ClarificationQuestion is asked when no single section can be chosen
const ClarificationQuestion = "Which section would you like to edit: summary, experience, skills, projects, or education?"

// Decision is the result of Route. When Applicable is false the caller falls
// back to a conversational reply (or a clarification when Ambiguous is set).
type Decision struct {
	Applicable    bool                  `json:"applicable"`
	Reason        Reason                `json:"reason"`
	Section       string                `json:"section,omitempty"`
	Operation     string                `json:"operation,omitempty"`
	Tool          string                `json:"tool,omitempty"`
	Ambiguous     bool                  `json:"ambiguous,omitempty"`
	Candidates    []types.Section       `json:"candidates,omitempty"`
	Scores        map[types.Section]int `json:"scores,omitempty"`
	Clarification string                `json:"clarification,omitempty"`
}

// Config tunes the keyword classifier
type Config struct {
	// MinMargin is how many more keyword hits the top section needs than
	// the runner-up before a text request is attributed to it.
	MinMargin int
}

// DefaultConfig returns the default routing policy
func DefaultConfig() Config {
	return Config{MinMargin: 1}
}

// Extractor turns free text into a structured request. hint is the section
// chosen by keyword routing, or "" when none was.
type Extractor interface {
	Extract(ctx context.Context, text string, hint types.Section) (*types.EditRequest, error)
}

// Observer receives every routing decision made by Handle
type Observer interface {
	RecordDecision(d Decision)
}

// Response is what Handle returns to the transport layer
type Response struct {
	Decision Decision           `json:"decision"`
	Result   *specialist.Result `json:"result,omitempty"`
	Data     any                `json:"data,omitempty"`
	Message  string             `json:"message"`
}

// Router is the entry point for edit requests
type Router struct {
	coordinator *coordinator.Coordinator
	extractor   Extractor
	config      Config
	observer    Observer
}

// New creates a Router. extractor may be nil, in which case text-only
// requests can be classified but not executed.
func New(c *coordinator.Coordinator, extractor Extractor, config Config) *Router {
	if config.MinMargin < 1 {
		config.MinMargin = 1
	}
	return &Router{coordinator: c, extractor: extractor, config: config}
}

// SetObserver installs o. It must be called before the Router is shared.
func (r *Router) SetObserver(o Observer) {
	r.observer = o
}

// Route classifies a request without side effects
func (r *Router) Route(req types.EditRequest) Decision {
	if req.Tool != "" {
		return r.routeTool(req)
	}
	if strings.TrimSpace(req.Section) != "" {
		return Decision{
			Applicable: true,
			Reason:     ReasonSection,
			Section:    req.Section,
			Operation:  req.Operation,
		}
	}
	return r.routeText(req.Text)
}

func (r *Router) routeTool(req types.EditRequest) Decision {
	switch req.Tool {
	case ToolGetResume:
		return Decision{Applicable: true, Reason: ReasonTool, Tool: req.Tool}
	case ToolGetSection:
		section := req.Section
		if section == "" {
			section, _ = req.Args["section"].(string)
		}
		return Decision{Applicable: true, Reason: ReasonTool, Tool: req.Tool, Section: section}
	}

	if tool, ok := tools.ByName(req.Tool); ok {
		return Decision{
			Applicable: true,
			Reason:     ReasonTool,
			Tool:       tool.Name,
			Section:    string(tool.Section),
			Operation:  string(tool.Operation),
		}
	}

	// An unregistered tool under an explicit section is forwarded so the
	// specialist reports it as an unknown operation.
	if req.Section != "" {
		return Decision{Applicable: true, Reason: ReasonSection, Section: req.Section, Operation: req.Tool}
	}
	return Decision{Reason: ReasonUnknownTool, Tool: req.Tool}
}

func (r *Router) routeText(text string) Decision {
	scores := score(text)
	top, runnerUp := scores[0], scores[1]

	all := make(map[types.Section]int, len(scores))
	for _, s := range scores {
		all[s.Section] = s.Score
	}

	if top.Score == 0 {
		return Decision{Reason: ReasonConversational, Scores: all}
	}

	if top.Score-runnerUp.Score < r.config.MinMargin {
		var candidates []types.Section
		for _, s := range scores {
			if s.Score > 0 && top.Score-s.Score < r.config.MinMargin {
				candidates = append(candidates, s.Section)
			}
		}
		return Decision{
			Reason:        ReasonAmbiguous,
			Ambiguous:     true,
			Candidates:    candidates,
			Scores:        all,
			Clarification: ClarificationQuestion,
		}
	}

	return Decision{
		Applicable: true,
		Reason:     ReasonKeywords,
		Section:    string(top.Section),
		Scores:     all,
	}
}

// Handle routes a request and executes it. Conversational requests get the
// capability text and no error. Ambiguity is reported as *AmbiguousError
// together with a Response carrying the clarification question.
func (r *Router) Handle(ctx context.Context, req types.EditRequest) (*Response, error) {
	decision := r.Route(req)
	if r.observer != nil {
		r.observer.RecordDecision(decision)
	}
	return r.dispatchDecision(ctx, req, decision)
}

// dispatchDecision executes an already routed request. The observer is not
// notified, so a request re-routed after extraction counts once.
func (r *Router) dispatchDecision(ctx context.Context, req types.EditRequest, decision Decision) (*Response, error) {
	resp := &Response{Decision: decision}

	if !decision.Applicable {
		switch {
		case decision.Ambiguous:
			resp.Message = decision.Clarification
			log.Printf("[router] ambiguous request, candidates %v", decision.Candidates)
			return resp, &AmbiguousError{Candidates: decision.Candidates, Question: decision.Clarification}
		case decision.Reason == ReasonUnknownTool:
			err := &specialist.UnknownToolError{Operation: decision.Tool}
			resp.Message = err.Error()
			return resp, err
		default:
			resp.Message = Capabilities()
			return resp, nil
		}
	}

	switch decision.Tool {
	case ToolGetResume:
		resp.Data = r.coordinator.GetResume()
		resp.Message = "Full resume returned."
		return resp, nil
	case ToolGetSection:
		view, err := r.coordinator.GetSection(decision.Section)
		if err != nil {
			resp.Message = err.Error()
			return resp, err
		}
		resp.Data = view.Data
		resp.Message = fmt.Sprintf("Section %s returned.", view.Section)
		return resp, nil
	}

	if decision.Operation == "" {
		return r.extractAndHandle(ctx, req, resp)
	}

	log.Printf("[router] %s/%s (%s)", decision.Section, decision.Operation, decision.Reason)
	result, err := r.coordinator.Dispatch(ctx, decision.Section, decision.Operation, req.Args)
	resp.Result = result
	switch {
	case err != nil:
		resp.Message = err.Error()
	case result.Outcome != nil:
		resp.Message = result.Outcome.Message
	default:
		resp.Data = result.Data
		resp.Message = result.Message()
	}
	return resp, err
}

// extractAndHandle obtains an operation for a request that named a section
// (or was classified into one) but not what to do with it
func (r *Router) extractAndHandle(ctx context.Context, req types.EditRequest, resp *Response) (*Response, error) {
	section, known := types.ParseSection(resp.Decision.Section)

	if r.extractor == nil || strings.TrimSpace(req.Text) == "" {
		if !known {
			err := &coordinator.UnknownSectionError{Name: resp.Decision.Section}
			resp.Message = err.Error()
			return resp, err
		}
		err := &MissingOperationError{Section: section, Operations: r.operations(section)}
		resp.Message = err.Error()
		return resp, err
	}

	extracted, err := r.extractor.Extract(ctx, req.Text, section)
	if err != nil {
		wrapped := &ExtractionError{Message: "failed to extract intent", Cause: err}
		resp.Message = wrapped.Error()
		return resp, wrapped
	}

	var next types.EditRequest
	if extracted != nil {
		next = *extracted
	}
	next.Text = ""
	if next.Tool == "" && next.Section == "" {
		// The extractor found nothing actionable; treat the text as chat.
		resp.Decision = Decision{Reason: ReasonConversational}
		resp.Message = Capabilities()
		return resp, nil
	}
	if next.Tool == "" && next.Operation == "" {
		err := &MissingOperationError{Section: section, Operations: r.operations(section)}
		resp.Message = err.Error()
		return resp, err
	}

	log.Printf("[router] extracted %s%s/%s", next.Tool, next.Section, next.Operation)
	return r.dispatchDecision(ctx, next, r.Route(next))
}

func (r *Router) operations(section types.Section) []string {
	var ops []string
	for _, tool := range tools.ForSection(section) {
		ops = append(ops, string(tool.Operation))
	}
	return ops
}

// Capabilities describes what the engine can do, for greetings and
// off-topic requests
func Capabilities() string {
	return strings.Join([]string{
		"Hello! I can help you edit your resume:",
		"- Editing the professional summary",
		"- Adding, updating, or removing work experiences and bullet points",
		"- Managing skills (add/remove)",
		"- Editing projects and their technologies",
		"- Updating education information",
	}, "\n")
}
