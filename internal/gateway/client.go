package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"vps-checkout/internal/config"
	"vps-checkout/internal/model"

	"github.com/rs/zerolog"
)

// Client issues authenticated HTTP calls against the backend REST API and
// normalises every failure into one of three classes: caller abort
// (model.ErrAborted), auth failure (NO_ACCESS_TOKEN) and backend/transport
// failure (a DomainError carrying the action's code). It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a backend API client.
func NewClient(cfg config.BackendConfig, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "backend-client").Logger(),
	}
}

// backendDetail is the error payload shape of non-2xx backend responses.
type backendDetail struct {
	Detail string `json:"detail"`
}

// call performs one backend request. A non-2xx response becomes a DomainError
// under failCode with the backend's detail attached unchanged. Cancellation by
// the caller is reported as model.ErrAborted and must be swallowed upstream.
func (c *Client) call(ctx context.Context, method, path, token string, requireAuth bool, failCode string, body, out any) error {
	if requireAuth && token == "" {
		return model.ErrNoAccessToken
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			c.logger.Debug().
				Str("method", method).
				Str("path", path).
				Msg("backend request aborted by caller")
			return model.ErrAborted
		}
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("backend request failed")
		return model.NewDomainError(model.ErrCodeNetworkError, "backend request failed").
			WithDetail(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Msg("backend rejected session token")
		return model.ErrNoAccessToken
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var detail backendDetail
		// Best effort: the detail field is optional on error responses.
		_ = json.NewDecoder(resp.Body).Decode(&detail)

		c.logger.Warn().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("detail", detail.Detail).
			Msg("backend returned error response")

		msg := fmt.Sprintf("backend returned status %d", resp.StatusCode)
		return model.NewDomainError(failCode, msg).WithDetail(detail.Detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return model.NewDomainError(failCode, "failed to decode backend response").
				WithDetail(err.Error())
		}
	}

	return nil
}
