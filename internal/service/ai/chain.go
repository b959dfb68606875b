package ai

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ChainGenerator runs the prompt through an eino chain ending in a chat model.
type ChainGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChainGenerator compiles a single-message template in front of chatModel.
func NewChainGenerator(ctx context.Context, chatModel model.BaseChatModel) (*ChainGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile chat chain")
	}

	return &ChainGenerator{chain: runnable}, nil
}

// Generate invokes the chain once, without streaming.
func (g *ChainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{"prompt": prompt})
	if err != nil {
		return "", errors.Wrap(err, "failed to run AI chain")
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", errors.New("chat model returned an empty message")
	}

	log.Debug().Str("provider", "ark").Int("length", len(response.Content)).Msg("generated response")
	return response.Content, nil
}
