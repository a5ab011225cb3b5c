package main

import (
	"log"
	"os"

	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server that accepts edit requests.

Endpoints:
  GET  /health
  GET  /metrics                          Prometheus metrics
  GET  /tools
  GET  /schema                           persisted-form JSON Schema
  GET  /resume
  GET  /resume/{section}
  POST /requests                         body: {"tool"|"section"+"operation"|"text", "args"}
  POST /sections/{section}/{operation}   body: argument object

Rate limits are read from RATE_LIMIT_* environment variables.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	// request logs are always on for the server
	log.SetOutput(os.Stderr)

	metrics := observability.NewMetrics()
	a.invoker.SetRecorder(metrics)
	a.router.SetObserver(metrics)

	srv := server.New(server.Config{Port: servePort, Metrics: metrics.Handler()}, a.router, a.coordinator)
	return srv.Start(cmd.Context())
}
