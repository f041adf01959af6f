// Package client talks to the users REST API on behalf of a front end.
//
// Hook tracks a loading flag and the last error message the way a UI
// data hook would. Each SendRequest call takes a sequence number and only
// the most recent call may change that shared state, so an older response
// arriving late cannot clear the spinner or the error of a newer one.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// FallbackErrorMessage is reported when a failure carries no message.
const FallbackErrorMessage = "Something went wrong!"

// RequestConfig describes one HTTP call. Method defaults to GET. Body is
// encoded as JSON when non-nil.
type RequestConfig struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    any
}

// RequestError is returned by SendRequest for any failed call.
type RequestError struct {
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// Hook performs requests and exposes loading and error state.
type Hook struct {
	http *http.Client
	log  *zap.Logger

	mu      sync.Mutex
	seq     uint64
	loading bool
	err     string
}

// Option configures a Hook.
type Option func(*Hook)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *Hook) { h.http = c }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hook) { h.log = l }
}

// NewHook creates a Hook with a 30s request timeout.
func NewHook(opts ...Option) *Hook {
	h := &Hook{
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Loading reports whether the most recent request is still in flight.
func (h *Hook) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// Error returns the message of the most recent failed request, or "".
func (h *Hook) Error() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// SendRequest performs cfg and passes the response body to applyData on
// success. An empty or null body is passed as {}. Any failure, including one
// returned by applyData, is returned as a *RequestError and, if this is still
// the latest call, recorded as the hook error.
func (h *Hook) SendRequest(ctx context.Context, cfg RequestConfig, applyData func(data []byte) error) error {
	id := h.begin()

	err := h.do(ctx, cfg, applyData)

	h.finish(id, err)
	return err
}

func (h *Hook) begin() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	h.loading = true
	h.err = ""
	return h.seq
}

func (h *Hook) finish(id uint64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if id != h.seq {
		return
	}
	h.loading = false
	if err != nil {
		h.err = err.Error()
	}
}

func (h *Hook) do(ctx context.Context, cfg RequestConfig, applyData func([]byte) error) error {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if cfg.Body != nil {
		raw, err := json.Marshal(cfg.Body)
		if err != nil {
			return &RequestError{Message: err.Error(), Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, body)
	if err != nil {
		return &RequestError{Message: err.Error(), Err: err}
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if cfg.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	h.log.Debug("sending request", zap.String("method", method), zap.String("url", cfg.URL))

	resp, err := h.http.Do(req)
	if err != nil {
		return &RequestError{Message: messageOr(err.Error()), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Status: resp.StatusCode, Message: messageOr(err.Error()), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &payload)
		h.log.Debug("request failed",
			zap.String("url", cfg.URL),
			zap.Int("status", resp.StatusCode),
			zap.String("message", payload.Message),
		)
		return &RequestError{
			Status:  resp.StatusCode,
			Message: messageOr(payload.Message),
			Err:     fmt.Errorf("%s %s: status %d", method, cfg.URL, resp.StatusCode),
		}
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		trimmed = []byte("{}")
	}
	if !json.Valid(trimmed) {
		err := errors.New("response is not valid JSON")
		return &RequestError{Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if applyData != nil {
		if err := applyData(trimmed); err != nil {
			return &RequestError{Status: resp.StatusCode, Message: messageOr(err.Error()), Err: err}
		}
	}
	return nil
}

func messageOr(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return FallbackErrorMessage
	}
	return msg
}
