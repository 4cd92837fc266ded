// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package transfer turns a resolved upload plan and a file into a single
// outbound request against the storage backend or the application proxy.
package transfer

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/types"
)

// DefaultAttemptBudget bounds one whole transfer attempt. Expiry is surfaced
// as a timeout error, distinct from network failures.
const DefaultAttemptBudget = 30 * time.Minute

// File is the local side of a transfer: content plus the declared name and
// type the multipart strategies embed in the form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Receipt is the executor's success payload. MediaInfo is set only when a
// proxy upload already registered the media record, letting the caller skip
// the completion call.
type Receipt struct {
	MediaInfo *types.MediaInfo
}

// Executor runs exactly one transfer per plan. It holds no per-upload state
// and is safe for reuse across attempts.
type Executor struct {
	http   *http.Client
	budget time.Duration

	// Extra headers attached to proxy requests only (the proxy is the
	// application backend, which expects the caller's credentials; direct
	// storage requests must carry nothing beyond what the session specified).
	proxyHeader http.Header
}

// Option configures an Executor.
type Option func(*Executor)

// WithHTTPClient replaces the transport used for outbound transfers.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Executor) { e.http = c }
}

// WithAttemptBudget overrides the per-attempt time budget.
func WithAttemptBudget(d time.Duration) Option {
	return func(e *Executor) { e.budget = d }
}

// WithProxyHeader sets headers attached to proxy uploads, typically the
// bearer credentials the application backend expects.
func WithProxyHeader(h http.Header) Option {
	return func(e *Executor) { e.proxyHeader = h }
}

// NewExecutor creates an executor with the default 30 minute attempt budget.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		http:   &http.Client{},
		budget: DefaultAttemptBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the single transfer a plan describes. Exactly one strategy
// executes; the plan must not be reused after Execute returns, success or
// not.
func (e *Executor) Execute(ctx context.Context, plan session.Plan, file File, onProgress ProgressFunc) (*Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	start := time.Now()
	var (
		receipt *Receipt
		err     error
	)

	switch p := plan.(type) {
	case session.ProxyPlan:
		receipt, err = e.executeProxy(ctx, p, file, onProgress)
	case session.SignedURLPlan:
		receipt, err = e.executeSignedURL(ctx, p, file, onProgress)
	case session.B2NativePlan:
		receipt, err = e.executeB2Native(ctx, p, file, onProgress)
	case session.S3FormPlan:
		receipt, err = e.executeS3Form(ctx, p, file, onProgress)
	default:
		return nil, mediaerr.Newf(mediaerr.ErrPrecondition, "unknown upload plan %T", plan)
	}

	evt := logger.Ctx(ctx).Debug().
		Str("strategy", string(plan.Strategy())).
		Str("storage_key", plan.Meta().StorageKey).
		Dur("elapsed", time.Since(start))
	if err != nil {
		evt.Err(err).Msg("transfer failed")
		return nil, err
	}
	evt.Msg("transfer finished")
	return receipt, nil
}

// send performs the outbound request shared by all executors: body wrapped in
// the progress reader, status classified into the error taxonomy, response
// body returned for executors that need it.
func (e *Executor) send(ctx context.Context, method, url string, header http.Header, body io.Reader, size int64, onProgress ProgressFunc) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, newProgressReader(body, size, onProgress))
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "build transfer request")
	}
	req.ContentLength = size
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, mediaerr.Classify(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mediaerr.Classify(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mediaerr.FromStatus(resp.StatusCode)
	}
	return payload, nil
}
