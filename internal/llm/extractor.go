// Package llm - extractor.go turns free text into a structured edit request.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
)

// ExtractionSchema defines the structure for LLM-based content extraction
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "EditIntent")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "object"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only the tools listed above, with exactly the parameter names shown.\n")
	sb.WriteString("- Copy names, dates and wording from the request verbatim; do not invent values.\n")
	sb.WriteString("- If the request is not a resume edit or is unclear, return an empty \"tool\".\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Request:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// EditIntentSchema returns the extraction schema for one tool call. The
// catalog is rendered into the description so the model can only choose
// from registered tools. When hint is set, only that section's tools are
// offered.
func EditIntentSchema(hint types.Section) ExtractionSchema {
	var sb strings.Builder
	sb.WriteString(`You are the intent parser of a resume editor. Map the user's request to exactly one tool call.
Available tools:
`)
	for _, tool := range tools.Catalog() {
		if hint != "" && tool.Section != hint {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(describeTool(tool))
		sb.WriteString("\n")
	}

	return ExtractionSchema{
		Name:        "EditIntent",
		Description: strings.TrimRight(sb.String(), "\n"),
		Fields: []SchemaField{
			{
				Name:        "tool",
				Type:        "\"string\"",
				Description: "Name of the tool to call, or \"\" when no tool applies",
				Required:    true,
			},
			{
				Name:        "args",
				Type:        "{\"param\": value}",
				Description: "Arguments keyed by parameter name; indexes are 0-based integers",
				Required:    false,
			},
		},
	}
}

func describeTool(tool *tools.Tool) string {
	params := make([]string, 0, len(tool.Params))
	for _, p := range tool.Params {
		s := p.Name + ": " + string(p.Type)
		if !p.Required {
			s += "?"
		}
		params = append(params, s)
	}
	return fmt.Sprintf("%s(%s): %s", tool.Name, strings.Join(params, ", "), tool.Description)
}

// intentResponse is the JSON shape requested by EditIntentSchema
type intentResponse struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// IntentExtractor asks the model which tool a free-text request maps to
type IntentExtractor struct {
	client Client
	tier   ModelTier
}

// NewIntentExtractor creates an extractor over client
func NewIntentExtractor(client Client) *IntentExtractor {
	return &IntentExtractor{client: client, tier: TierLite}
}

// Extract returns the structured request for text. An empty request (no
// tool) means the model found nothing to edit. When hint is set, a tool from
// another section is rejected.
func (e *IntentExtractor) Extract(ctx context.Context, text string, hint types.Section) (*types.EditRequest, error) {
	prompt := BuildExtractionPrompt(EditIntentSchema(hint), text)

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, fmt.Errorf("failed to extract intent: %w", err)
	}

	var resp intentResponse
	if err := json.Unmarshal([]byte(CleanJSONBlock(raw)), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse intent JSON: %w", err)
	}

	resp.Tool = strings.TrimSpace(resp.Tool)
	if resp.Tool == "" {
		return &types.EditRequest{}, nil
	}
	tool, ok := tools.ByName(resp.Tool)
	if !ok {
		return nil, fmt.Errorf("model selected unknown tool %q", resp.Tool)
	}
	if hint != "" && tool.Section != hint {
		return nil, fmt.Errorf("model selected %s tool %q for a %s request", tool.Section, resp.Tool, hint)
	}
	return &types.EditRequest{Tool: resp.Tool, Args: resp.Args}, nil
}
