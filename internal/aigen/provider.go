package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gymora/api/internal/config"
)

// Completer is the single call the rest of the app makes against the
// text-generation provider.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}

// Provider calls a chat-completions-style HTTP endpoint. One blocking
// request per invocation; no retry, no streaming. The provider is treated as
// unreliable and may return non-JSON text despite instructions.
type Provider struct {
	cfg        config.AIConfig
	httpClient *http.Client
}

func NewProvider(cfg config.AIConfig) *Provider {
	return &Provider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (p *Provider) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	if strings.TrimSpace(p.cfg.APIKey) == "" {
		return "", fmt.Errorf("ai api key is not configured")
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", fmt.Errorf("prompt is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": p.cfg.Model,
		"messages": []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		"temperature": p.cfg.Temperature,
		"max_tokens":  p.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material goes only into the Authorization header and is
	// never echoed in errors or logs.
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	res, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil {
			return "", fmt.Errorf("read completion error body: %w", err)
		}
		return "", fmt.Errorf("completion request status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	for _, choice := range payload.Choices {
		if text := strings.TrimSpace(choice.Message.Content); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("completion response missing output text")
}
