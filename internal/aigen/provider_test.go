package aigen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymora/api/internal/config"
)

func testAIConfig(url string) config.AIConfig {
	return config.AIConfig{
		BaseURL:     url,
		APIKey:      "test-key",
		Model:       "test-model",
		Temperature: 0.2,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	}
}

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestProviderComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionResponse("  hello there  ")))
	}))
	defer srv.Close()

	provider := NewProvider(testAIConfig(srv.URL))

	out, err := provider.Complete(context.Background(), "be helpful", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestProviderCompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	provider := NewProvider(testAIConfig(srv.URL))

	_, err := provider.Complete(context.Background(), "sys", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestProviderCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	provider := NewProvider(testAIConfig(srv.URL))

	_, err := provider.Complete(context.Background(), "sys", "hi")
	assert.Error(t, err)
}

func TestProviderCompleteMissingAPIKey(t *testing.T) {
	cfg := testAIConfig("http://unused.invalid")
	cfg.APIKey = ""
	provider := NewProvider(cfg)

	_, err := provider.Complete(context.Background(), "sys", "hi")
	assert.Error(t, err)
}

func TestProviderCompleteEmptyPrompt(t *testing.T) {
	provider := NewProvider(testAIConfig("http://unused.invalid"))

	_, err := provider.Complete(context.Background(), "sys", "   ")
	assert.Error(t, err)
}
