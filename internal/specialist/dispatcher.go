// Package specialist holds one dispatcher per resume section. Each dispatcher
// owns a closed table from operation identifier to registered tool and
// forwards resolved mutations to the invoker.
package specialist

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
)

// Result is what a dispatcher hands back up the chain. Reads fill Data;
// mutations fill Outcome.
type Result struct {
	Section   types.Section    `json:"section"`
	Operation tools.Operation  `json:"operation"`
	Tool      string           `json:"tool"`
	Data      any              `json:"data,omitempty"`
	Outcome   *invoker.Outcome `json:"outcome,omitempty"`
}

// Message returns the human-readable result text
func (r *Result) Message() string {
	if r.Outcome != nil {
		if r.Outcome.Err != nil {
			return r.Outcome.Err.Error()
		}
		return r.Outcome.Message
	}
	return fmt.Sprintf("%s returned %s", r.Tool, r.Section)
}

// Dispatcher serves exactly one section
type Dispatcher struct {
	section types.Section
	ops     map[tools.Operation]*tools.Tool
	order   []tools.Operation
	store   *document.Store
	invoker *invoker.Invoker
}

// New builds the dispatcher for section from the tool registry
func New(section types.Section, store *document.Store, inv *invoker.Invoker) *Dispatcher {
	d := &Dispatcher{
		section: section,
		ops:     make(map[tools.Operation]*tools.Tool),
		store:   store,
		invoker: inv,
	}
	for _, tool := range tools.ForSection(section) {
		d.ops[tool.Operation] = tool
		d.order = append(d.order, tool.Operation)
	}
	return d
}

// NewAll builds one dispatcher per section
func NewAll(store *document.Store, inv *invoker.Invoker) map[types.Section]*Dispatcher {
	all := make(map[types.Section]*Dispatcher, len(types.Sections))
	for _, section := range types.Sections {
		all[section] = New(section, store, inv)
	}
	return all
}

// Section returns the section this dispatcher serves
func (d *Dispatcher) Section() types.Section {
	return d.section
}

// Operations lists the supported operations in registry order
func (d *Dispatcher) Operations() []tools.Operation {
	out := make([]tools.Operation, len(d.order))
	copy(out, d.order)
	return out
}

// Resolve maps an operation name and raw arguments to a bound invocation
func (d *Dispatcher) Resolve(op string, raw map[string]any) (*tools.Invocation, error) {
	tool, ok := d.ops[tools.Operation(op)]
	if !ok {
		return nil, &UnknownToolError{Section: d.section, Operation: op}
	}
	args, err := tools.Bind(tool, raw)
	if err != nil {
		return nil, err
	}
	return &tools.Invocation{Tool: tool, Args: args}, nil
}

// Handle resolves and runs one operation. Reads are served from a snapshot
// copy; mutations go through the invoker. A failed mutation still returns
// its Result alongside the error so callers can report the outcome.
func (d *Dispatcher) Handle(ctx context.Context, op string, raw map[string]any) (*Result, error) {
	inv, err := d.Resolve(op, raw)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Section:   d.section,
		Operation: inv.Tool.Operation,
		Tool:      inv.Tool.Name,
	}

	if inv.Tool.ReadOnly() {
		data, err := inv.Tool.Read(d.store.Snapshot(), inv.Args)
		if err != nil {
			return nil, err
		}
		result.Data = data
		return result, nil
	}

	result.Outcome = d.invoker.Execute(ctx, inv)
	return result, result.Outcome.Err
}
