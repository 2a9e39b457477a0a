// Package api talks to the checklist REST server. Every request carries
// the session's bearer token and a request id for log correlation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token; "" means send no Authorization header.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL   string
	http      *http.Client
	tokens    TokenSource
	logger    *log.Logger
	userAgent string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithTimeout bounds each request. Zero, the default, never times out.
// The client is copied first so one installed by WithHTTPClient is left as is.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func WithLogger(l *log.Logger) Option { return func(c *Client) { c.logger = l } }

func WithUserAgent(ua string) Option { return func(c *Client) { c.userAgent = ua } }

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{},
		tokens:    tokens,
		logger:    log.New(io.Discard, "", 0),
		userAgent: "checklist-cli",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: marshal: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	rid := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", rid)
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("api: %s %s [%s] failed: %v", method, path, rid, err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	c.logger.Printf("api: %s %s [%s] -> %d in %s", method, path, rid, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	env, perr := parseEnvelope(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Method: method, Path: path, Status: resp.StatusCode, RequestID: rid}
		if perr == nil && env.Message != "" {
			apiErr.Message = env.Message
		} else {
			apiErr.Message = snippet(raw)
		}
		return nil, apiErr
	}
	if perr != nil {
		// a 2xx without a JSON body still counts as success for the callers
		// that do not inspect data
		c.logger.Printf("api: %s %s [%s] non-JSON body: %v", method, path, rid, perr)
		return &Envelope{}, nil
	}
	return env, nil
}

func parseEnvelope(raw []byte) (*Envelope, error) {
	env := &Envelope{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, err
	}
	return env, nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:197] + "..."
	}
	return s
}
