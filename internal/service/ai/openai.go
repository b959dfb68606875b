package ai

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/vivekdev/portfolio/backend/internal/config"
)

// ChatCompleter is the subset of openai.Client used here; it is easy to mock in tests.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient creates a client for any OpenAI-compatible endpoint.
func NewOpenAIClient(cfg config.AIConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// OpenAIGenerator sends the prompt as one user message of a chat completion.
type OpenAIGenerator struct {
	client ChatCompleter
	model  string
	temp   float32
	topP   float32
	max    int
}

// NewOpenAIGenerator wraps client with the sampling options from cfg.
func NewOpenAIGenerator(client ChatCompleter, cfg config.AIConfig) *OpenAIGenerator {
	g := &OpenAIGenerator{client: client, model: cfg.Model}
	if cfg.Temperature != nil {
		g.temp = float32(*cfg.Temperature)
	}
	if cfg.TopP != nil {
		g.topP = float32(*cfg.TopP)
	}
	if cfg.MaxTokens != nil {
		g.max = *cfg.MaxTokens
	}
	return g
}

// Generate issues a single non-streaming completion.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temp,
		TopP:        g.topP,
		MaxTokens:   g.max,
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion failed")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai returned no choices")
	}

	log.Debug().Str("provider", "openai").Str("model", g.model).Int("length", len(resp.Choices[0].Message.Content)).Msg("generated response")
	return resp.Choices[0].Message.Content, nil
}
