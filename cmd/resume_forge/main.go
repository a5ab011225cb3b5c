// Package main provides the resume_forge CLI for routed, validated resume edits.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_forge",
	Short: "Validated, section-routed edits to a structured resume",
	Long: `resume_forge applies precise edits to a structured resume document.
Requests are routed to the section they concern, executed against a snapshot,
validated, and committed or rolled back as a unit.`,
	SilenceUsage: true,
}

var (
	configPath   string
	resumePath   string
	databaseURL  string
	sqlitePath   string
	documentName string
	provider     string
	verbose      bool
	margin       int
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to JSON or YAML config file")
	flags.StringVarP(&resumePath, "resume", "r", "", "Path to the resume JSON document (default resume.json)")
	flags.StringVar(&databaseURL, "database-url", "", "PostgreSQL URL; stores the document in the database instead of a file")
	flags.StringVar(&sqlitePath, "sqlite", "", "SQLite database file; stores the document there instead of a file")
	flags.StringVar(&documentName, "document", "", "Document name in the database (default \"default\")")
	flags.StringVar(&provider, "provider", "", "Intent extraction provider: gemini or openai (default gemini)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print routing decisions and edit outcomes")
	flags.IntVar(&margin, "margin", 0, "Keyword hits the top section needs over the runner-up (default 1)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
