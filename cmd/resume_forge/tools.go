package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	RunE:  runTools,
}

var toolsJSON bool

func init() {
	toolsCmd.Flags().BoolVar(&toolsJSON, "json", false, "Print the catalog as JSON")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, _ []string) error {
	catalog := tools.Catalog()
	if toolsJSON {
		return printJSON(cmd, catalog)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%-22s %s\n", router.ToolGetResume, "Get the full resume")
	_, _ = fmt.Fprintf(out, "%-22s %s\n", router.ToolGetSection+"(section)", "Get one section")
	for _, tool := range catalog {
		_, _ = fmt.Fprintf(out, "%-22s %s/%s  %s\n", tool.Name, tool.Section, tool.Operation, formatParams(tool.Params))
	}
	return nil
}

func formatParams(params []tools.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		s := p.Name
		if !p.Required {
			s += "?"
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
