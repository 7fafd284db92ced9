// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/MohittShukla/QA-agent/internal/common"
	"github.com/MohittShukla/QA-agent/internal/llm/providers"
)

type Message = providers.Message

type Provider = providers.Provider

// NewProvider selects the gateway implementation from the environment.
// QA_AGENT_PROVIDER forces a backend; otherwise the first configured
// credential wins, Gemini before OpenAI. A missing credential is a warning,
// not a startup failure: the unconfigured provider fails each call instead.
func NewProvider(ctx context.Context) Provider {
	logger := common.Logger()
	geminiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	openaiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))

	switch strings.ToLower(strings.TrimSpace(os.Getenv("QA_AGENT_PROVIDER"))) {
	case "local":
		logger.Info("llm: local stub provider selected")
		return providers.NewLocalProvider()
	case "openai":
		if openaiKey == "" {
			logger.Warn("llm: OPENAI_API_KEY not set; completions will fail")
			return providers.NewUnconfiguredProvider()
		}
		return providers.NewOpenAIProvider(openaiKey)
	case "gemini":
		provider, err := providers.NewGeminiProvider(ctx, geminiKey)
		if err != nil {
			logger.Warn("llm: gemini provider unavailable; completions will fail", "error", err)
			return providers.NewUnconfiguredProvider()
		}
		return provider
	}

	if geminiKey != "" {
		provider, err := providers.NewGeminiProvider(ctx, geminiKey)
		if err == nil {
			return provider
		}
		logger.Warn("llm: gemini provider unavailable", "error", err)
	}
	if openaiKey != "" {
		return providers.NewOpenAIProvider(openaiKey)
	}
	logger.Warn("llm: no API key configured; completions will fail until GEMINI_API_KEY or OPENAI_API_KEY is set")
	return providers.NewUnconfiguredProvider()
}
