// Package ai turns market snapshots into normalized trading decisions by
// prompting one of several interchangeable LLM providers. The analyzer never
// returns an error: any failure degrades to a safe WAIT decision carrying a
// diagnostic in the reason field.
package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tradedeck/tradedeck/internal/models"
)

// Provider names accepted in AISettings.Provider
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// Provider is one LLM completion backend. Each implementation owns its
// endpoint, auth header shape and response-field path.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewProvider selects the provider implementation for the given settings.
// It fails when the provider is unknown or its key is missing; the analyzer
// turns that failure into a WAIT decision.
func NewProvider(settings models.AISettings, httpClient *http.Client) (Provider, error) {
	switch settings.Provider {
	case ProviderGemini:
		if settings.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider selected but no API key configured")
		}
		return NewGeminiProvider(settings.GeminiAPIKey, httpClient), nil

	case ProviderOpenAI:
		if settings.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no API key configured")
		}
		return NewOpenAIProvider(settings.OpenAIAPIKey, settings.OpenAIBaseURL, settings.OpenAIModel, httpClient), nil

	case ProviderDeepSeek:
		if settings.DeepSeekAPIKey == "" {
			return nil, fmt.Errorf("deepseek provider selected but no API key configured")
		}
		return NewDeepSeekProvider(settings.DeepSeekAPIKey, settings.DeepSeekModel, httpClient), nil

	case "":
		return nil, fmt.Errorf("no AI provider configured")

	default:
		return nil, fmt.Errorf("unknown AI provider %q", settings.Provider)
	}
}
