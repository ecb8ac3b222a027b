// Package api is the client for the remote commerce backend. It attaches
// the bearer credential when one is available, normalizes the backend's
// inconsistent response envelope, and surfaces failures as typed errors
// carrying the server message. It never retries: retry policy belongs to
// the user-initiated action, not the transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxBodySize = 1 << 20 // 1MiB
)

// TokenSource supplies the current bearer credential. An empty string means
// the caller is anonymous and no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to a TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Config configures the API client.
type Config struct {
	// BaseURL is the API base, e.g. http://localhost:8080/api.
	BaseURL string
	// Tokens supplies the bearer credential per request. Optional; nil
	// means every request is anonymous.
	Tokens TokenSource
	// HTTPClient overrides the default client. When nil a client with a
	// conservative timeout is used; a hung backend then fails the call
	// instead of hanging the caller forever.
	HTTPClient *http.Client
	// MaxBodyBytes caps response bodies. Defaults to 1MiB.
	MaxBodyBytes int64

	Logger zerolog.Logger
}

// Client talks to the commerce backend.
type Client struct {
	baseURL      string
	tokens       TokenSource
	httpClient   *http.Client
	maxBodyBytes int64
	log          zerolog.Logger
}

// New validates cfg and builds a client.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api: BaseURL must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api: BaseURL scheme must be http or https")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if httpClient.Timeout == 0 {
		httpClient.Timeout = defaultTimeout
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodySize
	}

	return &Client{
		baseURL:      baseURL,
		tokens:       cfg.Tokens,
		httpClient:   httpClient,
		maxBodyBytes: maxBodyBytes,
		log:          cfg.Logger,
	}, nil
}

// do executes one request and decodes the normalized payload into out when
// out is non-nil. Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(method, path, "transport_error", time.Since(start))
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return &Error{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		observeRequest(method, path, "read_error", time.Since(start))
		return &Error{Message: fmt.Sprintf("read response: %v", err)}
	}
	observeRequest(method, path, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := serverMessage(respBody)
		if message == "" {
			message = fmt.Sprintf("server error: %s", http.StatusText(resp.StatusCode))
		}
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", message).
			Msg("request rejected")
		return &Error{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := decodePayload(respBody, out); err != nil {
		return fmt.Errorf("api: decode %s %s response: %w", method, path, err)
	}
	return nil
}
