package gateway

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

	"github.com/rs/zerolog/log"
)

// Observer receives one call per gateway request. outcome is "ok",
// "not_found", "server_error" or "transport_error".
type Observer interface {
	ObserveRequest(op, outcome string, elapsed time.Duration)
}

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 8 << 20

type Client struct {
	baseURL      string
	prefix       string
	http         *http.Client
	observer     Observer
	maxBodyBytes int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBodyBytes = n }
}

// NewClient builds a client for the backend at baseURL. Every resource path
// is placed under prefix (for example "/api/v1").
func NewClient(baseURL, prefix string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  "/" + strings.Trim(prefix, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},

		maxBodyBytes: DefaultMaxBodyBytes,
	}
	if c.prefix == "/" {
		c.prefix = ""
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping checks that the backend answers GET /ping. It lives outside the prefix.
func (c *Client) Ping(ctx context.Context) error {
	return c.send(ctx, "ping", http.MethodGet, c.baseURL+"/ping", nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	target := c.baseURL + c.prefix + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.send(ctx, op, method, target, in, out)
}

func (c *Client) send(ctx context.Context, op, method, target string, in, out any) (err error) {
	started := time.Now()
	defer func() { c.observe(op, err, time.Since(started)) }()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("gateway: %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.Debug().Str("op", op).Str("method", method).Str("url", target).Msg("gateway: sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error().Err(err).Str("op", op).Str("url", target).Msg("gateway: no response from backend")
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(raw)) > c.maxBodyBytes {
		log.Error().Str("op", op).Int64("limit", c.maxBodyBytes).Msg("gateway: response body too large")
		return &TransportError{Op: op, Err: fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, c.maxBodyBytes)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := &ServerError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		if resp.StatusCode == http.StatusNotFound {
			log.Debug().Str("op", op).Str("url", target).Msg("gateway: resource not found")
		} else {
			log.Error().Int("status", resp.StatusCode).Str("op", op).Str("message", serverErr.Message).Msg("gateway: backend returned an error")
		}
		return serverErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway: %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) observe(op string, err error, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(op, outcome(err), elapsed)
}

func outcome(err error) string {
	switch e := err.(type) {
	case nil:
		return "ok"
	case *ServerError:
		if e.StatusCode == http.StatusNotFound {
			return "not_found"
		}
		return "server_error"
	case *TransportError:
		return "transport_error"
	default:
		return "client_error"
	}
}
