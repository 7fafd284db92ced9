// File path: internal/llm/providers/provider.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

type Message struct {
	Role    string
	Content string
}

// Provider is the opaque completion interface over a hosted generative
// model. A failure is terminal for the request; retries, if any, are the
// policy wrapper's business.
type Provider interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is a deterministic stub for development and tests.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

// UnconfiguredProvider is installed when no credential is present. Startup
// proceeds; every completion fails with an actionable message.
type UnconfiguredProvider struct{}

func NewUnconfiguredProvider() *UnconfiguredProvider {
	return &UnconfiguredProvider{}
}

func (u *UnconfiguredProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	return "", fmt.Errorf("no AI provider configured: set GEMINI_API_KEY or OPENAI_API_KEY")
}

func (u *UnconfiguredProvider) Name() string {
	return "unconfigured"
}
