package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenAIClientNormalizesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"the analysis"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "", time.Second)
	c.baseURL = srv.URL

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "the analysis", text)
}

func TestOpenAIClientEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient("test-key", "", time.Second)
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), "prompt")
	require.ErrorContains(t, err, "empty choices")
}

func TestGroqClientNormalizesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"groq analysis"}}]}`))
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", "", time.Second)
	c.baseURL = srv.URL

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "groq analysis", text)
}

func TestGroqClientSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"rate limit"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGroqClient("test-key", "", time.Second)
	c.baseURL = srv.URL

	_, err := c.Generate(context.Background(), "prompt")
	require.ErrorContains(t, err, "429")
	require.Equal(t, ErrorRate, ClassifyError(err))
}

func TestOllamaClientNormalizesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		_, _ = w.Write([]byte(`{"model":"llama3.1","response":"ollama analysis","done":true}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "", time.Second)

	text, err := c.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "ollama analysis", text)
}

func TestOllamaClientEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":"  "}`))
	}))
	defer srv.Close()

	c := NewOllamaClient(srv.URL, "", time.Second)

	_, err := c.Generate(context.Background(), "prompt")
	require.ErrorContains(t, err, "empty response")
}

func TestClientsRequireAPIKey(t *testing.T) {
	_, err := NewOpenAIClient("", "", time.Second).Generate(context.Background(), "p")
	require.ErrorContains(t, err, "api key")
	_, err = NewGroqClient("", "", time.Second).Generate(context.Background(), "p")
	require.ErrorContains(t, err, "api key")
}
