package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	applog "github.com/safetrip/backend/pkg/log"
)

// GeminiGenerator calls the Gemini API through the genai SDK.
type GeminiGenerator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// GeminiOptions 描述 Gemini 客户端参数。BaseURL 为空时使用官方地址。
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGeminiGenerator creates a client bound to opts.APIKey and opts.Model.
func NewGeminiGenerator(ctx context.Context, opts GeminiOptions, system string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	var genConfig *genai.GenerateContentConfig
	if system = strings.TrimSpace(system); system != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		}
	}

	return &GeminiGenerator{client: client, model: opts.Model, config: genConfig}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	applog.WithCtx(ctx).Debug("gemini generated response", zap.String("model", g.model), zap.Int("length", len(text)))
	return text, nil
}
