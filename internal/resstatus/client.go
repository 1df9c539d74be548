// Package resstatus queries an external reservation-status provider for
// train bookings. The classification engine never touches the network; only
// codes it has already validated are sent here.
package resstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/textsieve/textsieve/internal/common"
	"github.com/textsieve/textsieve/internal/pattern"
)

// Status is the provider's answer for one reservation code.
type Status struct {
	Code      string `json:"code"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// Client talks to a reservation-status provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given provider base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: provider URL", common.ErrMissingConfig)
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Lookup fetches the current status of a train reservation code, retrying
// transient provider failures with backoff.
func (c *Client) Lookup(ctx context.Context, code string) (*Status, error) {
	if !pattern.IsTrainCode(code) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidReservation, code)
	}

	var status *Status
	err := common.WithRetry(ctx, func() error {
		s, lookupErr := c.fetch(ctx, code)
		if lookupErr != nil {
			return lookupErr
		}
		status = s
		return nil
	}, common.RetryOptions{MaxAttempts: 3})

	return status, err
}

func (c *Client) fetch(ctx context.Context, code string) (*Status, error) {
	url := fmt.Sprintf("%s/status/%s", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimit
	case resp.StatusCode == http.StatusNotFound:
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("%w: %s", common.ErrNotFound, code),
			Retryable: false,
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(body))
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &common.RetryableError{
			Err:       fmt.Errorf("failed to decode provider response: %w", err),
			Retryable: false,
		}
	}

	return &status, nil
}
