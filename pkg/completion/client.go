// Package completion is a client for the text completion service a chat
// turn is sent to.
//
// The service accepts a POST whose body is the raw user text and answers
// with a JSON document whose top-level value is the completion.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/chatbox/pkg/utils"
)

// DefaultTarget is the completion endpoint used when none is configured.
const DefaultTarget = "http://localhost:1187/completion"

// maxErrorBody bounds how much of a failed response body is kept for diagnostics.
const maxErrorBody = 512

// ErrMalformedResponse indicates a 2xx response that did not carry a
// usable completion.
var ErrMalformedResponse = errors.New("malformed completion response")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("completion service returned status %d", e.Code)
	}
	return fmt.Sprintf("completion service returned status %d: %s", e.Code, e.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the client's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client sends completion requests to a single target URL.
type Client struct {
	target  string
	timeout time.Duration
	http    *http.Client
	logger  *zap.Logger
}

// NewClient returns a Client for target. An empty target uses DefaultTarget.
func NewClient(target string, opts ...Option) *Client {
	if target == "" {
		target = DefaultTarget
	}

	c := &Client{
		target: target,
		http:   &http.Client{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Target returns the endpoint URL requests are sent to.
func (c *Client) Target() string {
	return c.target
}

// Complete posts text to the service and returns the decoded completion.
func (c *Client) Complete(ctx context.Context, text string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.target, strings.NewReader(text))
	if err != nil {
		return "", fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("sending completion request",
		zap.String("target", c.target),
		zap.Int("body_len", len(text)),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{
			Code: resp.StatusCode,
			Body: utils.Truncate(string(bytes.TrimSpace(body)), maxErrorBody),
		}
	}

	completion, err := Decode(body)
	if err != nil {
		return "", err
	}

	c.logger.Debug("completion received",
		zap.Int("status", resp.StatusCode),
		zap.Int("completion_len", len(completion)),
	)

	return completion, nil
}

// completionFields are the object keys accepted as the completion text, in
// order of preference.
var completionFields = []string{"text", "content", "completion"}

// Decode extracts the completion from a response body. The body must be a
// JSON string, or an object carrying the string under one of the keys
// "text", "content" or "completion".
func Decode(body []byte) (string, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if isNull(raw) {
		return "", fmt.Errorf("%w: null completion", ErrMalformedResponse)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("%w: top-level value is neither a string nor an object", ErrMalformedResponse)
	}

	for _, field := range completionFields {
		v, ok := obj[field]
		if !ok {
			continue
		}
		if isNull(v) {
			return "", fmt.Errorf("%w: field %q is null", ErrMalformedResponse, field)
		}
		if err := json.Unmarshal(v, &s); err != nil {
			return "", fmt.Errorf("%w: field %q is not a string", ErrMalformedResponse, field)
		}
		return s, nil
	}

	return "", fmt.Errorf("%w: no completion field in response", ErrMalformedResponse)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
