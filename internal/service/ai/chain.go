package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	applog "github.com/safetrip/backend/pkg/log"
)

// ChainGenerator runs prompts through an eino template + chat model chain.
type ChainGenerator struct {
	system string
	chain  compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles the chain once; Generate reuses it.
func NewChainGenerator(ctx context.Context, chatModel model.ChatModel, system string) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ChainGenerator{system: system, chain: runnable}, nil
}

// Generate implements Generator.
func (g *ChainGenerator) Generate(ctx context.Context, query string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{
		"system": g.system,
		"query":  query,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyResponse
	}

	applog.WithCtx(ctx).Debug("chain generated response", zap.Int("length", len(response.Content)))
	return response.Content, nil
}
