// File path: internal/llm/policy.go
package llm

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/MohittShukla/QA-agent/internal/common"
)

// Policy makes the gateway call contract explicit. The default is the
// documented behavior: one attempt, no orchestration-level timeout.
type Policy struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

func DefaultPolicy() Policy {
	return Policy{}
}

// PolicyFromEnv reads LLM_TIMEOUT (a Go duration) on top of the default
// policy. Invalid values are logged and ignored.
func PolicyFromEnv() Policy {
	policy := DefaultPolicy()
	if raw := strings.TrimSpace(os.Getenv("LLM_TIMEOUT")); raw != "" {
		dur, err := time.ParseDuration(raw)
		if err != nil {
			common.Logger().Warn("llm: invalid LLM_TIMEOUT, using default", "value", raw, "error", err)
		} else {
			policy.Timeout = dur
		}
	}
	return policy
}

// WithPolicy wraps a provider with retry/timeout handling. A zero policy
// leaves behavior unchanged apart from passing through the wrapper.
func WithPolicy(provider Provider, policy Policy) Provider {
	return &policyProvider{inner: provider, policy: policy}
}

type policyProvider struct {
	inner  Provider
	policy Policy
}

func (p *policyProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	attempts := p.policy.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			common.Logger().Warn("llm: retrying completion", "attempt", attempt+1, "error", lastErr)
			if p.policy.RetryBackoff > 0 {
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(p.policy.RetryBackoff):
				}
			}
		}
		out, err := p.complete(ctx, messages)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (p *policyProvider) complete(ctx context.Context, messages []Message) (string, error) {
	if p.policy.Timeout > 0 {
		callCtx, cancel := context.WithTimeout(ctx, p.policy.Timeout)
		defer cancel()
		return p.inner.Complete(callCtx, messages)
	}
	return p.inner.Complete(ctx, messages)
}

func (p *policyProvider) Name() string {
	return p.inner.Name()
}
