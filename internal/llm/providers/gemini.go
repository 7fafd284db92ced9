// File path: internal/llm/providers/gemini.go
package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/MohittShukla/QA-agent/internal/common"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiProvider completes prompts against the Google Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	model := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	logger := common.Logger()
	logger.Info("llm: gemini provider configured", "model", model)
	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("nil gemini client")
	}
	logger := common.Logger()
	logger.Debug("llm: sending gemini request", "model", g.model, "messages", len(messages))
	config := &genai.GenerateContentConfig{}
	var contents []*genai.Content
	for _, msg := range messages {
		if strings.ToLower(msg.Role) == "system" {
			config.SystemInstruction = genai.NewContentFromText(msg.Content, genai.RoleUser)
			continue
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("no user content provided")
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		logger.Error("llm: gemini request failed", "error", err)
		return "", err
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	logger.Debug("llm: gemini request succeeded")
	return text, nil
}

func (g *GeminiProvider) Name() string {
	return "gemini"
}
