package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Apply one edit, or a batch of edits",
	Long: `Applies one edit named by --tool (e.g. add_skill) or by --section and --op,
with arguments given as --arg name=value. List values use JSON: --arg 'bullets=["a","b"]'.

With --batch, reads a JSON (or .yaml) list of requests ({"tool": ..., "args": {...}} or
{"section": ..., "operation": ..., "args": {...}}) and applies them one at a time
in file order, so later edits see earlier ones. Each edit commits or rolls back
on its own. --parallel N submits independent edits concurrently instead.`,
	RunE: runEdit,
}

var (
	editTool      string
	editSection   string
	editOperation string
	editArgs      []string
	editBatch     string
	editParallel  int
)

func init() {
	editCmd.Flags().StringVarP(&editTool, "tool", "t", "", "Tool name, e.g. add_skill")
	editCmd.Flags().StringVarP(&editSection, "section", "s", "", "Section name")
	editCmd.Flags().StringVarP(&editOperation, "op", "o", "", "Operation within the section, e.g. add")
	editCmd.Flags().StringArrayVarP(&editArgs, "arg", "a", nil, "Argument as name=value (repeatable)")
	editCmd.Flags().StringVar(&editBatch, "batch", "", "Path to a JSON or YAML list of requests")
	editCmd.Flags().IntVar(&editParallel, "parallel", 0, "Submit --batch edits concurrently with N workers; only for independent edits")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) error {
	var requests []types.EditRequest
	if editBatch != "" {
		if editTool != "" || editSection != "" || len(editArgs) > 0 {
			return fmt.Errorf("--batch cannot be combined with --tool, --section or --arg")
		}
		batch, err := loadBatch(editBatch)
		if err != nil {
			return err
		}
		requests = batch
	} else {
		if editTool == "" && editSection == "" {
			return fmt.Errorf("one of --tool, --section or --batch is required")
		}
		args, err := parseArgPairs(editArgs)
		if err != nil {
			return err
		}
		requests = []types.EditRequest{{Tool: editTool, Section: editSection, Operation: editOperation, Args: args}}
	}

	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	results := submitAll(cmd.Context(), a.router, requests, editParallel)

	failed := 0
	for i, res := range results {
		if a.cfg.Verbose && res.resp != nil {
			a.printer.PrintDecision(res.resp.Decision)
			if res.resp.Result != nil {
				a.printer.PrintOutcome(res.resp.Result.Outcome)
			}
		}
		if res.err != nil {
			failed++
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%d] FAILED: %v\n", i+1, res.err)
			continue
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s\n", i+1, res.resp.Message)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d edit(s) failed", failed, len(requests))
	}
	return nil
}

type submission struct {
	resp *router.Response
	err  error
}

// submitAll applies requests in order. With parallel > 1 they are submitted
// concurrently and commit in no particular order. Results are returned in
// request order either way.
func submitAll(ctx context.Context, r *router.Router, requests []types.EditRequest, parallel int) []submission {
	results := make([]submission, len(requests))

	if parallel <= 1 {
		for i, req := range requests {
			resp, err := r.Handle(ctx, req)
			results[i] = submission{resp: resp, err: err}
		}
		return results
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, req := range requests {
		g.Go(func() error {
			resp, err := r.Handle(ctx, req)
			results[i] = submission{resp: resp, err: err}
			// one failed edit must not cancel the others
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// parseArgPairs turns name=value pairs into raw arguments. Values starting
// with '[' are decoded as JSON lists; everything else stays a string.
func parseArgPairs(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected name=value", pair)
		}
		if _, dup := args[name]; dup {
			return nil, fmt.Errorf("argument %q given more than once", name)
		}

		if strings.HasPrefix(strings.TrimSpace(value), "[") {
			var list []any
			if err := json.Unmarshal([]byte(value), &list); err != nil {
				return nil, fmt.Errorf("invalid list for %q: %w", name, err)
			}
			args[name] = list
			continue
		}
		args[name] = value
	}
	return args, nil
}

// loadBatch reads a JSON or YAML (.yaml/.yml) list of edit requests
func loadBatch(path string) ([]types.EditRequest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var requests []types.EditRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &requests); err != nil {
			return nil, fmt.Errorf("failed to parse batch YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(content, &requests); err != nil {
			return nil, fmt.Errorf("failed to parse batch JSON: %w", err)
		}
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("batch file %s contains no requests", path)
	}
	return requests, nil
}
