package providers

import (
	"fmt"
	"strings"
)

// ProviderError is the single failure shape the dispatcher reports: which
// provider failed plus the underlying transport or envelope error.
type ProviderError struct {
	Provider Provider
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Type buckets the underlying failure so HTTP handlers can decide between
// bad-gateway, bad-request and plain server-error responses.
func (e *ProviderError) Type() ErrorType {
	return ClassifyError(e.Err)
}

type ErrorType string

const (
	ErrorQuota     ErrorType = "quota"
	ErrorRate      ErrorType = "rate"
	ErrorTransient ErrorType = "transient"
	ErrorPermanent ErrorType = "permanent"
	ErrorContext   ErrorType = "context"
)

// ClassifyError buckets a provider failure by message substring, enough to
// tell callers whether a retry could ever help.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "context"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}
