// Package llm wraps the language model used to turn free-text edit requests
// into structured tool calls.
package llm

import "time"

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for intent extraction: short prompts, structured output
	TierLite ModelTier = "lite"
	// TierStandard is the fallback when a lite model is not configured
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// Supported providers
const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
	Timeout     time.Duration
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: 0.1,
		Timeout:     30 * time.Second,
	}
}

// ConfigFor returns the default configuration for a provider. Unknown
// providers get the Gemini defaults with the provider name kept, so that
// NewClient can reject them.
func ConfigFor(provider Provider) *Config {
	config := DefaultConfig()
	switch provider {
	case ProviderOpenAI:
		config.Provider = ProviderOpenAI
		config.Models = map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
		}
	case "":
	default:
		config.Provider = provider
	}
	return config
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := *c
	next.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return &next
}
