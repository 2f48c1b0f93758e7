package llm

import (
	"context"
	"errors"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// Client is the natural-language-understanding capability the derivation
// adapter talks to. Implementations own their transport and timeout.
type Client interface {
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
}
