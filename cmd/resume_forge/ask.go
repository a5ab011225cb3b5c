package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Route a natural-language request",
	Long: `Routes free text to the section it concerns. With an API key for the
selected provider (GEMINI_API_KEY, OPENAI_API_KEY with --provider openai, or
api_key in the config) the request is turned into a tool call and executed;
without one, the routing decision is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	text := strings.Join(args, " ")
	resp, err := a.router.Handle(cmd.Context(), types.EditRequest{Text: text})

	if a.cfg.Verbose && resp != nil {
		a.printer.PrintDecision(resp.Decision)
		if resp.Result != nil {
			a.printer.PrintOutcome(resp.Result.Outcome)
		}
	}

	var ambiguous *router.AmbiguousError
	if errors.As(err, &ambiguous) {
		// a clarification is an answer, not a failure
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), ambiguous.Question)
		return nil
	}
	var missing *router.MissingOperationError
	if errors.As(err, &missing) && a.cfg.APIKey == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Routed to %s. Without an API key, use: resume_forge edit --section %s --op <%s>\n",
			missing.Section, missing.Section, strings.Join(missing.Operations, "|"))
		return nil
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	if resp.Data != nil {
		return printJSON(cmd, resp.Data)
	}
	return nil
}
