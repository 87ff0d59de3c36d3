// Package api is the HTTP client for the 12 Weeks REST API. Responses are
// decoded at this boundary into domain types; nothing outside the package
// sees wire shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource provides the bearer token for outgoing requests. An empty
// token sends the request unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the 12 Weeks API. It is safe for concurrent use.
type Client struct {
	cfg      Config
	http     *http.Client
	tokens   TokenSource
	observer Observer
}

// New creates a Client. A nil tokens sends every request unauthenticated; a
// nil observer discards request events.
func New(cfg Config, tokens TokenSource, observer Observer) *Client {
	if tokens == nil {
		tokens = StaticToken("")
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		observer: observer,
	}
}

// envelope is the wrapper every API response uses.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func (e *envelope) reason() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// do sends one request and returns the envelope's data payload.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	start := time.Now()
	reqID := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, status, err := c.roundTrip(ctx, method, path, reqID, body)
	c.observer.OnRequestComplete(ctx, RequestEvent{
		Method:    method,
		Path:      path,
		RequestID: reqID,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return data, err
}

func (c *Client) roundTrip(ctx context.Context, method, path, reqID string, body any) (json.RawMessage, int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-ID", reqID)
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if tok := c.tokens.Token(); tok != "" {
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, 0, transportError(ctx, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, transportError(ctx, err)
	}

	var env envelope
	jsonErr := json.Unmarshal(respBody, &env)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		se := &StatusError{Status: httpResp.StatusCode}
		if jsonErr == nil {
			se.Message = env.reason()
		}
		return nil, httpResp.StatusCode, se
	}
	if jsonErr != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, jsonErr)
	}
	if env.Success != nil && !*env.Success {
		if msg := env.reason(); msg != "" {
			return nil, httpResp.StatusCode, fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return nil, httpResp.StatusCode, ErrRejected
	}
	return env.Data, httpResp.StatusCode, nil
}

// transportError classifies a failure that happened before a full response
// was read. Cancellation by the caller passes through unchanged.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}
