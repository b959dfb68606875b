package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/vivekdev/portfolio/backend/internal/model/chat"
	"github.com/vivekdev/portfolio/backend/internal/model/profile"
)

// Client talks to the portfolio backend over HTTP. It satisfies Relay.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient targets baseURL (scheme and host, no trailing /api).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

type chatRequest struct {
	Messages []chat.Message `json:"messages"`
}

type chatResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Reply posts the transcript to /api/chat.
func (c *Client) Reply(ctx context.Context, transcript []chat.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Messages: transcript})
	if err != nil {
		return "", fmt.Errorf("encode transcript: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode relay response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned %d: %s", resp.StatusCode, payload.Error)
	}
	return payload.Response, nil
}

// Profile fetches /api/profile.
func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profile", nil)
	if err != nil {
		return profile.Profile{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return profile.Profile{}, fmt.Errorf("profile returned %d", resp.StatusCode)
	}

	var p profile.Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return profile.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
