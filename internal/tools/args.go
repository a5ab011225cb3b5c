// Package tools defines the closed registry of per-section resume operations.
package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamType is the declared type of a tool parameter
type ParamType string

// Parameter types understood by Bind
const (
	ParamString     ParamType = "string"
	ParamInt        ParamType = "int"
	ParamStringList ParamType = "string_list"
)

// Param describes one named, typed tool parameter
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Required    bool      `json:"required"`
	Description string    `json:"description,omitempty"`
}

// Args holds arguments that were checked against a tool's parameter list.
// Values are stored as string, int or []string according to the Param type.
type Args map[string]any

// Bind checks raw arguments (typically decoded from JSON) against a tool's
// parameters and converts them to their declared Go types. Unknown names,
// missing required parameters and type mismatches are InvalidArgumentErrors.
func Bind(tool *Tool, raw map[string]any) (Args, error) {
	declared := make(map[string]Param, len(tool.Params))
	for _, p := range tool.Params {
		declared[p.Name] = p
	}

	for name := range raw {
		if _, ok := declared[name]; !ok {
			return nil, &InvalidArgumentError{Tool: tool.Name, Param: name, Message: "unknown parameter"}
		}
	}

	args := make(Args, len(raw))
	for _, p := range tool.Params {
		value, ok := raw[p.Name]
		if !ok || value == nil {
			if p.Required {
				return nil, &InvalidArgumentError{Tool: tool.Name, Param: p.Name, Message: "is required"}
			}
			continue
		}

		converted, err := convert(p.Type, value)
		if err != nil {
			return nil, &InvalidArgumentError{Tool: tool.Name, Param: p.Name, Message: err.Error()}
		}
		args[p.Name] = converted
	}
	return args, nil
}

func convert(t ParamType, value any) (any, error) {
	switch t {
	case ParamString:
		switch v := value.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		}
		return nil, fmt.Errorf("expected string, got %T", value)

	case ParamInt:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("expected integer, got %v", v)
			}
			return int(v), nil
		case json.Number:
			n, err := strconv.Atoi(v.String())
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", value)

	case ParamStringList:
		switch v := value.(type) {
		case []string:
			out := make([]string, len(v))
			copy(out, v)
			return out, nil
		case []any:
			out := make([]string, len(v))
			for i, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("element %d: expected string, got %T", i, item)
				}
				out[i] = s
			}
			return out, nil
		}
		return nil, fmt.Errorf("expected list of strings, got %T", value)
	}
	return nil, fmt.Errorf("unsupported parameter type %q", t)
}

// String returns a string argument, or "" when absent
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Lookup returns a string argument and whether it was supplied
func (a Args) Lookup(name string) (string, bool) {
	s, ok := a[name].(string)
	return s, ok
}

// Int returns an integer argument, or 0 when absent
func (a Args) Int(name string) int {
	n, _ := a[name].(int)
	return n
}

// Strings returns a list argument and whether it was supplied
func (a Args) Strings(name string) ([]string, bool) {
	list, ok := a[name].([]string)
	return list, ok
}
