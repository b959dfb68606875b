package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
	"github.com/vivekdev/portfolio/backend/internal/service/ai"
)

var (
	// ErrMissingUserMessage is returned when the transcript carries no user turn.
	ErrMissingUserMessage = errors.New("no user message found")
	// ErrGenerationFailed wraps every provider failure.
	ErrGenerationFailed = errors.New("failed to generate response")
)

// Service turns a transcript into a generated reply. It keeps no per-call state.
type Service struct {
	generator ai.Generator
	profile   profile.Profile
}

// NewService binds the relay to a generator and the persona it speaks for.
func NewService(generator ai.Generator, p profile.Profile) *Service {
	return &Service{generator: generator, profile: p}
}

// Reply assembles the prompt for transcript and returns the provider text verbatim.
func (s *Service) Reply(ctx context.Context, transcript []chat.Message) (string, error) {
	prompt, err := BuildPrompt(s.profile, transcript)
	if err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Int("messages", len(transcript)).Msg("generation failed")
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	log.Info().Int("messages", len(transcript)).Int("length", len(text)).Msg("relay reply generated")
	return text, nil
}
