package ai

import (
	"context"
	"net/http"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com"
	defaultDeepSeekModel   = "deepseek-chat"
)

// DeepSeekProvider speaks the chat-completions protocol against the
// DeepSeek host with its own default model.
type DeepSeekProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewDeepSeekProvider creates a DeepSeek completion provider
func NewDeepSeekProvider(apiKey, model string, httpClient *http.Client) *DeepSeekProvider {
	if model == "" {
		model = defaultDeepSeekModel
	}
	return &DeepSeekProvider{
		apiKey:     apiKey,
		baseURL:    defaultDeepSeekBaseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Name identifies the provider in logs and diagnostics
func (p *DeepSeekProvider) Name() string { return ProviderDeepSeek }

// Complete sends the prompt through the chat-completions protocol
func (p *DeepSeekProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return chatComplete(ctx, p.httpClient, p.baseURL, p.apiKey, p.model, prompt, p.Name())
}
