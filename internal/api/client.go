package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/picosparking/zonaazul-admin/internal/logger"
)

// listRetryLimit bounds how many extra attempts a read can make on transient
// failures. 401 and every other 4xx are never retried.
const listRetryLimit = 2

// TokenSource yields the current bearer token, empty when logged out.
type TokenSource interface {
	AccessToken() string
}

// TokenSourceFunc adapts a plain function to a TokenSource.
type TokenSourceFunc func() string

func (f TokenSourceFunc) AccessToken() string { return f() }

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	Logger       *logger.Logger
	Tokens       TokenSource
	Unauthorized *UnauthorizedPolicy
}

// Client is the single gateway every service wrapper goes through. It attaches
// the bearer token, normalizes errors and applies the 401 policy.
type Client struct {
	baseURL      string
	http         *http.Client
	log          *logger.Logger
	tokens       TokenSource
	unauthorized *UnauthorizedPolicy
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New(logger.LevelInfo)
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         &http.Client{Timeout: timeout},
		log:          log,
		tokens:       cfg.Tokens,
		unauthorized: cfg.Unauthorized,
	}
}

// Get issues a read. Reads retry transient failures (no response, 5xx) up to
// listRetryLimit extra times.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out, listRetryLimit)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, 0)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out, 0)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, 0)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, retries int) error {
	const component = "APIClient"

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error(), Status: 0}
		}
	}

	var lastErr *Error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			c.log.Warn(component, "Retrying request: method=%s path=%s attempt=%d error=%v", method, path, attempt, lastErr)
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return &Error{Message: err.Error(), Status: 0}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", uuid.NewString())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.tokens != nil {
			if token := c.tokens.AccessToken(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = &Error{
				Message: "Network error. Please check your connection.",
				Code:    CodeNetworkError,
				Status:  0,
			}
			c.log.Warn(component, "Request failed: method=%s path=%s error=%v", method, path, err)
			if ctx.Err() != nil {
				return lastErr
			}
			continue
		}

		apiErr, retryable := c.handleResponse(resp, path, out)
		if apiErr == nil {
			return nil
		}
		lastErr = apiErr
		if !retryable {
			return apiErr
		}
	}
	return lastErr
}

// handleResponse consumes the body and reports whether a failure may be retried.
func (c *Client) handleResponse(resp *http.Response, path string, out any) (*Error, bool) {
	const component = "APIClient"
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: "Network error. Please check your connection.", Code: CodeNetworkError, Status: 0}, true
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				c.log.Error(component, "Failed to decode response: path=%s error=%v", path, err)
				return &Error{Message: "invalid response body: " + err.Error(), Status: resp.StatusCode}, false
			}
		}
		return nil, false
	}

	apiErr := &Error{Message: "An error occurred", Status: resp.StatusCode}
	var envelope errorEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
		apiErr.Code = envelope.Error.Code
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.unauthorized.handle(isLoginRequest(path))
		return apiErr, false
	}

	c.log.Debug(component, "Request rejected: path=%s status=%d code=%s", path, apiErr.Status, apiErr.Code)
	return apiErr, resp.StatusCode >= 500
}

func isLoginRequest(path string) bool {
	return strings.Contains(path, "/auth/login")
}
