// Package backend talks to the hosted community service. The client owns no
// data; it fetches and mutates records the backend defines, classifies HTTP
// failures into the shared error markers, and tags every request with an ID
// for correlation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"plaza/internal/config"
	"plaza/internal/logging"
	"plaza/internal/services"
)

const userAgent = "Plaza-Go/0.1.0"

// Client is the HTTP client for the community backend.
type Client struct {
	baseURL string
	apiKey  string
	userID  string
	http    *http.Client
	logger  *slog.Logger
}

// New builds a Client from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Backend.BaseURL, "/"),
		apiKey:  cfg.Backend.APIKey,
		userID:  cfg.Backend.UserID,
		http:    &http.Client{Timeout: cfg.BackendTimeout()},
		logger:  logging.NewComponentLogger(logger, "backend"),
	}
}

// UserID returns the configured acting user.
func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// doJSON issues a request with a JSON body (when body is non-nil) and
// decodes the JSON response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, operation string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return req.Context().Err()
		}
		return services.Wrap(services.ErrTransient, "backend", operation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := strings.TrimSpace(string(body))
		c.logger.Warn("backend request failed",
			logging.String("operation", operation),
			logging.String("request_id", requestID),
			logging.Int("status", resp.StatusCode))
		return classifyStatus(resp.StatusCode, operation, detail)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return services.Wrap(services.ErrTransient, "backend", operation, "decode response", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}
	return nil
}

func classifyStatus(status int, operation, detail string) error {
	message := fmt.Sprintf("backend returned %d", status)
	if detail != "" {
		message = fmt.Sprintf("backend returned %d: %s", status, detail)
	}
	switch {
	case status == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "backend", operation, message, nil)
	case status == http.StatusTooManyRequests || status >= 500:
		return services.Wrap(services.ErrTransient, "backend", operation, message, nil)
	default:
		return services.Wrap(services.ErrValidation, "backend", operation, message, nil)
	}
}
