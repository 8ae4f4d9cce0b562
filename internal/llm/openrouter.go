package llm

import (
	"fmt"
	"strings"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	// OpenRouter model slugs are passed through untouched.
	inner := newOpenAIClientProvider(OpenAIConfig{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	}, cfg.Model)

	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// SupportsWebSearch reports whether the model slug requests OpenRouter's
// web plugin (the ":online" suffix).
func (p *OpenRouterProvider) SupportsWebSearch() bool {
	return strings.HasSuffix(p.model, ":online")
}
