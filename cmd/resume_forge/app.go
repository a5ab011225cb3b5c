package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/db"
	"github.com/jonathan/resume-forge/internal/document"
	"github.com/jonathan/resume-forge/internal/invoker"
	"github.com/jonathan/resume-forge/internal/llm"
	"github.com/jonathan/resume-forge/internal/observability"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/types"
	"github.com/jonathan/resume-forge/internal/validation"
)

// app wires the engine for one command invocation
type app struct {
	cfg         config.Config
	store       *document.Store
	invoker     *invoker.Invoker
	coordinator *coordinator.Coordinator
	router      *router.Router
	printer     *observability.Printer

	closers []func()
}

// resolveConfig merges flags over the config file over the environment
func resolveConfig() (config.Config, error) {
	fileCfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = loaded
	}

	flagCfg := &config.Config{
		ResumePath:      resumePath,
		DatabaseURL:     databaseURL,
		SQLitePath:      sqlitePath,
		DocumentName:    documentName,
		Provider:        provider,
		Verbose:         verbose || fileCfg.Verbose,
		AmbiguityMargin: margin,
	}

	// the key variable read from the environment follows the chosen provider
	env := config.FromEnv()
	for _, p := range []string{flagCfg.Provider, fileCfg.Provider} {
		if p != "" {
			env.Provider = p
			env.APIKey = config.APIKeyFromEnv(p)
			break
		}
	}

	merged := fileCfg.MergeWithDefaults(env)
	cfg := flagCfg.MergeWithDefaults(merged)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openApp loads the document from the configured backend and builds the
// router chain around it
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := resolveConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	a := &app{cfg: cfg, printer: observability.NewPrinter(out)}

	persister, err := a.openPersister(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	initial, err := loadOrSeed(ctx, persister, cfg.ResumePath)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.store = document.NewStore(initial)
	a.invoker = invoker.New(a.store, validation.New(), persister)
	a.coordinator = coordinator.New(a.store, a.invoker)

	var extractor router.Extractor
	if cfg.APIKey != "" {
		client, err := llm.NewClient(ctx, llm.ConfigFor(llm.Provider(cfg.Provider)), cfg.APIKey)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		extractor = llm.NewIntentExtractor(client)
	}
	a.router = router.New(a.coordinator, extractor, router.Config{MinMargin: cfg.AmbiguityMargin})
	return a, nil
}

func (a *app) openPersister(ctx context.Context) (document.Persister, error) {
	if a.cfg.SQLitePath != "" {
		database, err := db.OpenSQLite(ctx, a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)

		if err := database.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return database.Documents(a.cfg.DocumentName), nil
	}
	if a.cfg.DatabaseURL == "" {
		return document.NewFileStore(a.cfg.ResumePath), nil
	}

	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, database.Close)

	if err := database.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return database.Documents(a.cfg.DocumentName), nil
}

// loadOrSeed loads the document; a database without the named document is
// seeded from the resume file when one exists
func loadOrSeed(ctx context.Context, persister document.Persister, seedPath string) (*types.Resume, error) {
	resume, err := persister.Load(ctx)
	if err == nil {
		return resume, nil
	}

	if !errors.Is(err, db.ErrDocumentNotFound) {
		return nil, err
	}
	if _, statErr := os.Stat(seedPath); statErr != nil {
		return nil, fmt.Errorf("%w; no seed file at %s", err, seedPath)
	}

	resume, err = document.NewFileStore(seedPath).Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := validation.New().Validate(resume).Err(); err != nil {
		return nil, fmt.Errorf("seed document is invalid: %w", err)
	}
	if err := persister.Save(ctx, resume, 0); err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}
	log.Printf("[resume_forge] seeded database document from %s", seedPath)
	return resume, nil
}

// Close releases database and LLM resources
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
