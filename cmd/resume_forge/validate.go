package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/validation"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON document",
	Long: `Checks a resume file against the persisted-form schema and the document
invariants (required fields, unique IDs, unique skills, well-formed list entries).

With --watch the file is re-checked every time it is saved until interrupted.`,
	RunE:  runValidate,
}

var (
	validateInput string
	validateWatch bool
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to resume JSON file (required)")
	validateCmd.Flags().BoolVarP(&validateWatch, "watch", "w", false, "Re-validate whenever the file changes")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !validateWatch {
		return validateFile(cmd.OutOrStdout(), validateInput)
	}

	w, err := document.NewWatcher(validateInput, document.DefaultDebounce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	report := func(path string) {
		if err := validateFile(out, path); err != nil {
			_, _ = fmt.Fprintf(out, "%v\n", err)
		}
	}
	report(validateInput)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := w.Run(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// validateFile decodes and checks one file, printing the result
func validateFile(out io.Writer, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	resume, err := document.Decode(content)
	if err != nil {
		return err
	}

	result := validation.New().Validate(resume)
	observability.NewPrinter(out).PrintValidation(result)

	if !result.Valid {
		// Return error to indicate violations were found (exit code 1)
		return fmt.Errorf("validation found %d violation(s)", len(result.Violations))
	}
	return nil
}
