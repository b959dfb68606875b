package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrForwardFailed is returned when the form backend rejects or cannot be reached.
var ErrForwardFailed = errors.New("failed to forward contact submission")

// Service validates submissions and forwards them to a Formspree-style endpoint.
type Service struct {
	endpoint string
	client   *http.Client
}

// NewService creates a forwarder posting to endpoint.
func NewService(endpoint string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Submit validates s and forwards it once.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	if err := Validate(sub); err != nil {
		return err
	}

	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("contact backend unreachable")
		return fmt.Errorf("%w: %w", ErrForwardFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Error().Int("status", resp.StatusCode).Str("body", string(detail)).Msg("contact backend rejected submission")
		return fmt.Errorf("%w: status %d", ErrForwardFailed, resp.StatusCode)
	}

	log.Info().Str("subject", sub.Subject).Msg("contact submission forwarded")
	return nil
}
