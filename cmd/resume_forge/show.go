package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Print the resume or one section as JSON",
	Long:  "Prints the committed resume, or one of summary, experience, skills, projects, education.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	var data any
	if len(args) == 0 {
		resume := a.coordinator.GetResume()
		if a.cfg.Verbose {
			a.printer.PrintResume(resume)
		}
		data = resume
	} else {
		view, err := a.coordinator.GetSection(args[0])
		if err != nil {
			return err
		}
		data = view.Data
	}

	return printJSON(cmd, data)
}

func printJSON(cmd *cobra.Command, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
