package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GroqClient talks to Groq's OpenAI-compatible chat API.
type GroqClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGroqClient(apiKey, model string, timeout time.Duration) *GroqClient {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &GroqClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.groq.com",
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *GroqClient) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("groq api key not configured")
	}
	payload, _ := json.Marshal(map[string]any{
		"model": g.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/openai/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build groq request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %w", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq error %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq returned empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
