package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyToken indicates the issuer returned no usable token. This is
// a hard connection failure: the session must not auto-retry on it.
var ErrEmptyToken = errors.New("token issuer returned an empty token")

// TokenClient fetches short-lived, single-use session tokens
type TokenClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewTokenClient creates a token client for the given issuer endpoint
func NewTokenClient(endpoint, apiKey string) *TokenClient {
	return &TokenClient{
		endpoint:   endpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type tokenRequest struct {
	Model string `json:"model"`
}

type tokenResponse struct {
	Token      string `json:"token"`
	ExpireTime string `json:"expireTime,omitempty"`
}

// Issue requests a new single-use token for the given model
func (c *TokenClient) Issue(ctx context.Context, model string) (string, error) {
	body, err := json.Marshal(tokenRequest{Model: model})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token issuer returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.Token == "" {
		return "", ErrEmptyToken
	}

	return tr.Token, nil
}
