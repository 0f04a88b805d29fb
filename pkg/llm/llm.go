// Package llm provides a provider-neutral client for single-shot text
// generation. Each supported provider gets one attempt per call; retry
// policy belongs to callers.
package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// Client generates a completion for a system/user prompt pair.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Request carries one assembled prompt.
type Request struct {
	System string
	User   string
}

// Response is the generated completion.
type Response struct {
	Text  string
	Model string
}

// Supported provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderPerplexity = "perplexity"
	ProviderChutes     = "chutes"
)

// ErrMissingCredentials is returned when a provider is selected without an
// API key.
var ErrMissingCredentials = eris.New("llm: missing api key for provider")

// Config selects a provider, credentials, and an optional model override.
type Config struct {
	Provider string
	APIKey   string
	Model    string
}

// ForProvider builds a client for the named provider. An empty API key is a
// configuration error; unknown providers are rejected.
func ForProvider(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, eris.Wrapf(ErrMissingCredentials, "llm: provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderAnthropic:
		return NewAnthropicClient(cfg.APIKey, withAnthropicModel(cfg.Model)), nil
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.APIKey, WithModel(cfg.Model)), nil
	case ProviderPerplexity:
		return NewPerplexityClient(cfg.APIKey, WithModel(cfg.Model)), nil
	case ProviderChutes:
		return NewChutesClient(cfg.APIKey, WithModel(cfg.Model)), nil
	default:
		return nil, eris.Errorf("llm: unsupported provider %q", cfg.Provider)
	}
}
