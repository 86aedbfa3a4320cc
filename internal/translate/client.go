package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the translation backend over HTTP.
type Client struct {
	translateEndpoint string
	detectEndpoint    string
	model             string
	httpClient        *http.Client
	logger            zerolog.Logger
}

// NewClient creates a translation client for the given endpoints.
func NewClient(translateEndpoint, detectEndpoint, model string, logger zerolog.Logger) *Client {
	return &Client{
		translateEndpoint: translateEndpoint,
		detectEndpoint:    detectEndpoint,
		model:             model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "translate").Logger(),
	}
}

type translateRequest struct {
	Text  string `json:"text"`
	From  string `json:"from"`
	To    string `json:"to"`
	Model string `json:"model,omitempty"`
}

type translateResponse struct {
	Translated string `json:"translated"`
}

type detectRequest struct {
	Text string `json:"text"`
}

type detectResponse struct {
	Code       string  `json:"code"`
	Confidence float64 `json:"confidence"`
}

// Translate translates text from one language to another. The from
// and to values are language codes; the backend receives display
// names so prompt-based models behave consistently.
func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	req := translateRequest{
		Text:  text,
		From:  NameFor(from),
		To:    NameFor(to),
		Model: c.model,
	}

	var resp translateResponse
	if err := c.post(ctx, c.translateEndpoint, req, &resp); err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}

	out := strings.TrimSpace(resp.Translated)
	if out == "" {
		return "", fmt.Errorf("translate request: empty result")
	}
	return out, nil
}

// Detect identifies the language of the given text and returns its
// ISO 639-1 code.
func (c *Client) Detect(ctx context.Context, text string) (string, error) {
	var resp detectResponse
	if err := c.post(ctx, c.detectEndpoint, detectRequest{Text: text}, &resp); err != nil {
		return "", fmt.Errorf("detect request: %w", err)
	}
	if resp.Code == "" {
		return "", fmt.Errorf("detect request: empty language code")
	}
	return strings.ToLower(strings.TrimSpace(resp.Code)), nil
}

func (c *Client) post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
