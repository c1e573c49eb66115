package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Abhishek-bramhawale/PYQuer-server/internal/util"
)

// Provider is the closed set of LLM backends an analysis can be routed to.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderOllama Provider = "ollama"
)

// All lists the supported providers in a stable order.
func All() []Provider {
	return []Provider{ProviderOpenAI, ProviderGroq, ProviderOllama}
}

// ParseProvider validates a client-supplied selector. Unknown selectors are
// rejected here, before any client is touched.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGroq:
		return ProviderGroq, nil
	case ProviderOllama:
		return ProviderOllama, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %v)", util.ErrUnknownProvider, s, All())
	}
}

// LLMClient is one backend's transport. Implementations normalize their
// native response envelope into a plain-text result.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
