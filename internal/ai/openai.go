package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// Chat-completions wire shapes, shared with the DeepSeek provider which
// speaks the same protocol against a different host.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// OpenAIProvider talks to an OpenAI-compatible chat-completions endpoint
// with Bearer auth. Base URL and model are configurable so self-hosted
// compatible gateways work too.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI-compatible completion provider.
// Empty baseURL and model fall back to the official endpoint defaults.
func NewOpenAIProvider(apiKey, baseURL, model string, httpClient *http.Client) *OpenAIProvider {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Name identifies the provider in logs and diagnostics
func (p *OpenAIProvider) Name() string { return ProviderOpenAI }

// Complete sends the prompt as a single user message and extracts the first
// choice's content
func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return chatComplete(ctx, p.httpClient, p.baseURL, p.apiKey, p.model, prompt, p.Name())
}

// chatComplete runs one chat-completions round trip. Shared by the OpenAI
// and DeepSeek providers.
func chatComplete(ctx context.Context, httpClient *http.Client, baseURL, apiKey, model, prompt, name string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", name, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode %s response: %w", name, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("%s error: %s", name, parsed.Error.Message)
		}
		return "", fmt.Errorf("%s returned status %d", name, resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s response has no choices", name)
	}
	return parsed.Choices[0].Message.Content, nil
}
