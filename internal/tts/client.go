// Package tts synthesizes speech for translated turns, chunking long
// text and caching the resulting audio per turn.
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the speech synthesis backend over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a synthesis client for the given endpoint.
func NewClient(endpoint string, logger zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "tts").Logger(),
	}
}

type synthesizeRequest struct {
	Text      string `json:"text"`
	VoiceName string `json:"voiceName"`
	Model     string `json:"model"`
}

type synthesizeResponse struct {
	AudioBase64 string `json:"audioBase64"`
}

// Synthesize renders text with the given voice and model, returning
// base64-encoded PCM.
func (c *Client) Synthesize(ctx context.Context, text, voice, model string) (string, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:      text,
		VoiceName: voice,
		Model:     model,
	})
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	var out synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.AudioBase64 == "" {
		return "", fmt.Errorf("empty audio in response")
	}
	return out.AudioBase64, nil
}
