package ai

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/vivekdev/portfolio/backend/internal/config"
)

// ContentGenerator is the subset of genai.GenerativeModel used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator sends the prompt as a single text part.
type GeminiGenerator struct {
	model  ContentGenerator
	client *genai.Client
}

// NewGeminiGenerator opens a Gemini client for cfg.Model.
func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	m := client.GenerativeModel(cfg.Model)
	if cfg.Temperature != nil {
		m.SetTemperature(float32(*cfg.Temperature))
	}
	if cfg.TopP != nil {
		m.SetTopP(float32(*cfg.TopP))
	}
	if cfg.MaxTokens != nil {
		m.SetMaxOutputTokens(int32(*cfg.MaxTokens))
	}

	return &GeminiGenerator{model: m, client: client}, nil
}

// NewGeminiGeneratorWithModel is used when the model handle is built elsewhere.
func NewGeminiGeneratorWithModel(m ContentGenerator) *GeminiGenerator {
	return &GeminiGenerator{model: m}
}

// Generate concatenates the text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content failed")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}
	if builder.Len() == 0 {
		return "", errors.New("gemini candidate carried no text")
	}

	log.Debug().Str("provider", "gemini").Int("length", builder.Len()).Msg("generated response")
	return builder.String(), nil
}

// Close releases the underlying client connection.
func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
