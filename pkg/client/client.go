// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is the media upload client: it negotiates upload sessions,
// runs the transfer through the resolved strategy, finalizes uploads into
// durable media records and serves the user's media catalog through a
// short-lived cache.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightclass/mediaup/pkg/cache"
	mctx "github.com/brightclass/mediaup/pkg/context"
	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/metrics"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/transfer"
)

// Client talks to the media backend. The catalog cache is its only shared
// mutable state; everything else is per-call. One Client instance is safe
// for concurrent use, but two concurrent uploads of the same file are the
// caller's problem: the client neither deduplicates nor serializes them.
type Client struct {
	baseURL string
	http    *http.Client
	token   func() string

	store    cache.Store
	cacheTTL time.Duration
	metrics  *metrics.Metrics

	neg  *session.Negotiator
	exec *transfer.Executor

	attemptBudget time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for backend calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken sets a static bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = func() string { return token } }
}

// WithTokenProvider sets a bearer token source consulted per request.
func WithTokenProvider(fn func() string) Option {
	return func(c *Client) { c.token = fn }
}

// WithCache replaces the catalog cache store.
func WithCache(s cache.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithCacheTTL overrides the catalog cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cacheTTL = ttl }
}

// WithMetrics registers upload and catalog metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = metrics.New(reg) }
}

// WithAttemptBudget overrides the 30 minute transfer budget.
func WithAttemptBudget(d time.Duration) Option {
	return func(c *Client) { c.attemptBudget = d }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          &http.Client{},
		token:         func() string { return "" },
		store:         cache.NewMemory(),
		cacheTTL:      cache.DefaultTTL,
		attemptBudget: transfer.DefaultAttemptBudget,
	}
	for _, opt := range opts {
		opt(c)
	}

	backend := &http.Client{
		Timeout:   c.http.Timeout,
		Transport: &authTransport{base: transportOf(c.http), token: c.token},
	}
	c.neg = session.NewNegotiator(backend, c.url("/media/upload/initiate"), c.url("/media/upload/proxy"))

	execOpts := []transfer.Option{
		transfer.WithHTTPClient(c.http),
		transfer.WithAttemptBudget(c.attemptBudget),
	}
	if tok := c.token(); tok != "" {
		execOpts = append(execOpts, transfer.WithProxyHeader(http.Header{
			"Authorization": []string{"Bearer " + tok},
		}))
	}
	c.exec = transfer.NewExecutor(execOpts...)

	return c
}

func transportOf(h *http.Client) http.RoundTripper {
	if h.Transport != nil {
		return h.Transport
	}
	return http.DefaultTransport
}

// authTransport injects bearer credentials and the request id into every
// backend call. Direct-to-storage requests never go through it.
type authTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.token(); tok != "" && req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if id := req.Context().Value(mctx.RequestID{}); id != nil {
		req.Header.Set(mctx.RequestKey, id.(string))
	}
	return t.base.RoundTrip(req)
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

// doJSON performs one backend call with the client's credentials and maps
// the status into the error taxonomy. Returns the raw response body.
func (c *Client) doJSON(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	ctx, reqID := mctx.WithUUID(ctx)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set(mctx.RequestKey, reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mediaerr.Classify(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrNetwork, err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mediaerr.FromStatus(resp.StatusCode)
	}
	return payload, nil
}
