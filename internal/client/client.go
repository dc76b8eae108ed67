// Package client is the HTTP client side of the activation protocol, used
// by cmd/activate and embeddable in installers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ActivationResponse is the server's reply to /activate and /check_status.
type ActivationResponse struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	Tier       string  `json:"tier"`
	ExpiryDate *string `json:"expiry_date"`
	Status     string  `json:"status,omitempty"`
	Token      string  `json:"token,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// APIError is a non-2xx reply carrying the server's machine-readable kind.
type APIError struct {
	StatusCode int
	Kind       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("activation server error (%d %s): %s", e.StatusCode, e.Kind, e.Message)
}

type Client struct {
	BaseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Activate binds this machine's hardware id to the license key and returns
// a session token on success.
func (c *Client) Activate(ctx context.Context, licenseKey, hardwareID string) (*ActivationResponse, error) {
	return c.post(ctx, "/activate", licenseKey, hardwareID)
}

// CheckStatus revalidates an already-activated license and refreshes the
// session token. It never consumes the hardware slot.
func (c *Client) CheckStatus(ctx context.Context, licenseKey, hardwareID string) (*ActivationResponse, error) {
	return c.post(ctx, "/check_status", licenseKey, hardwareID)
}

func (c *Client) post(ctx context.Context, path, licenseKey, hardwareID string) (*ActivationResponse, error) {
	body, err := json.Marshal(map[string]string{"lk": licenseKey, "hw": hardwareID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("activation request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read activation response: %w", err)
	}

	var parsed ActivationResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse activation response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Kind: parsed.Error, Message: parsed.Message}
	}
	return &parsed, nil
}
