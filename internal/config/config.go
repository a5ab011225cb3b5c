// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values applied by MergeWithDefaults and FromEnv
const (
	DefaultResumePath      = "resume.json"
	DefaultDocumentName    = "default"
	DefaultAmbiguityMargin = 1
	DefaultProvider        = "gemini"
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Storage
	ResumePath   string `json:"resume_path,omitempty" yaml:"resume_path,omitempty"`     // Path to the resume JSON document
	DatabaseURL  string `json:"database_url,omitempty" yaml:"database_url,omitempty"`   // PostgreSQL connection URL; selects the database backend
	SQLitePath   string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`     // SQLite database file; selects the SQLite backend
	DocumentName string `json:"document_name,omitempty" yaml:"document_name,omitempty"` // Row name of the document in the database

	// Intent extraction
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // "gemini" or "openai"
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`   // API key for the provider

	// Behavior
	Verbose         bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`                   // Print detailed debug information
	AmbiguityMargin int  `json:"ambiguity_margin,omitempty" yaml:"ambiguity_margin,omitempty"` // Keyword hits the top section needs over the runner-up
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by
// extension (.yaml/.yml, anything else is JSON).
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from RESUME_PATH, DATABASE_URL,
// SQLITE_PATH, LLM_PROVIDER and the provider's API key variable, for use as
// MergeWithDefaults input
func FromEnv() Config {
	provider := os.Getenv("LLM_PROVIDER")
	return Config{
		ResumePath:  os.Getenv("RESUME_PATH"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  os.Getenv("SQLITE_PATH"),
		Provider:    provider,
		APIKey:      APIKeyFromEnv(provider),
	}
}

// APIKeyFromEnv returns OPENAI_API_KEY for the openai provider and
// GEMINI_API_KEY otherwise
func APIKeyFromEnv(provider string) string {
	if provider == "openai" {
		return os.Getenv("OPENAI_API_KEY")
	}
	return os.Getenv("GEMINI_API_KEY")
}

// Validate checks that the configuration has valid values.
// Required fields are checked by the commands after merging.
func (c *Config) Validate() error {
	if c.AmbiguityMargin < 0 {
		return fmt.Errorf("config error: 'ambiguity_margin' must be non-negative")
	}

	switch c.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("config error: unknown provider %q (want gemini or openai)", c.Provider)
	}

	if c.DatabaseURL != "" && c.SQLitePath != "" {
		return fmt.Errorf("config error: 'database_url' and 'sqlite_path' are mutually exclusive")
	}

	if c.DatabaseURL == "" && c.SQLitePath == "" && c.DocumentName != "" {
		return fmt.Errorf("config error: 'document_name' requires 'database_url' or 'sqlite_path'")
	}

	if c.ResumePath != "" {
		if info, err := os.Stat(c.ResumePath); err == nil && info.IsDir() {
			return fmt.Errorf("config error: resume path is a directory: %s", c.ResumePath)
		}
	}

	return nil
}

// UsesDatabase reports whether a database backend is selected
func (c *Config) UsesDatabase() bool {
	return c.DatabaseURL != "" || c.SQLitePath != ""
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults,
// then from the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.ResumePath == "" {
		result.ResumePath = defaults.ResumePath
	}
	if result.DatabaseURL == "" && result.SQLitePath == "" {
		result.DatabaseURL = defaults.DatabaseURL
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DocumentName == "" {
		result.DocumentName = defaults.DocumentName
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	// Int fields: use default if zero
	if result.AmbiguityMargin == 0 {
		result.AmbiguityMargin = defaults.AmbiguityMargin
	}

	if result.ResumePath == "" {
		result.ResumePath = DefaultResumePath
	}
	if result.UsesDatabase() && result.DocumentName == "" {
		result.DocumentName = DefaultDocumentName
	}
	if result.Provider == "" {
		result.Provider = DefaultProvider
	}
	if result.AmbiguityMargin == 0 {
		result.AmbiguityMargin = DefaultAmbiguityMargin
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
