package providers

import (
	"context"
	"fmt"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// Dispatcher routes a prompt to the selected backend. Clients are injected
// at construction so nothing upstream holds ambient provider state.
type Dispatcher struct {
	openai LLMClient
	groq   LLMClient
	ollama LLMClient
}

func NewDispatcher(openai, groq, ollama LLMClient) *Dispatcher {
	return &Dispatcher{openai: openai, groq: groq, ollama: ollama}
}

// Generate sends the prompt to one provider and returns its normalized
// plain-text result. Any backend failure comes back as a *ProviderError so
// callers always see which provider failed and why.
func (d *Dispatcher) Generate(ctx context.Context, p Provider, prompt string) (string, error) {
	var client LLMClient
	switch p {
	case ProviderOpenAI:
		client = d.openai
	case ProviderGroq:
		client = d.groq
	case ProviderOllama:
		client = d.ollama
	default:
		return "", fmt.Errorf("%w: %q", util.ErrUnknownProvider, p)
	}
	if client == nil {
		return "", &ProviderError{Provider: p, Err: fmt.Errorf("client not configured")}
	}

	text, err := client.Generate(ctx, prompt)
	if err != nil {
		return "", &ProviderError{Provider: p, Err: err}
	}
	return text, nil
}
