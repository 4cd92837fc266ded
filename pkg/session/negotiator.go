// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/mediaerr"
)

// Doer abstracts the configured HTTP client so the backend client owns
// transport concerns (auth headers, timeouts).
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// FileInfo describes the candidate file to the backend.
type FileInfo struct {
	Name        string `json:"filename"`
	Size        int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// Negotiator obtains an upload session descriptor from the backend and
// resolves it into a plan.
type Negotiator struct {
	http          Doer
	initiateURL   string
	proxyEndpoint string
}

// NewNegotiator creates a negotiator posting to initiateURL. proxyEndpoint is
// baked into any proxy plan it resolves.
func NewNegotiator(doer Doer, initiateURL, proxyEndpoint string) *Negotiator {
	return &Negotiator{
		http:          doer,
		initiateURL:   initiateURL,
		proxyEndpoint: proxyEndpoint,
	}
}

type initiateRequest struct {
	FileInfo
	CourseID string `json:"course_id,omitempty"`
}

// Negotiate issues the initiate request and returns a resolved single-use
// plan. courseID optionally groups the upload under a course.
func (n *Negotiator) Negotiate(ctx context.Context, file FileInfo, courseID string) (Plan, error) {
	body, err := json.Marshal(initiateRequest{FileInfo: file, CourseID: courseID})
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "encode initiate request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.initiateURL, bytes.NewReader(body))
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "build initiate request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return nil, mediaerr.Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, mediaerr.FromStatus(resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrNetwork, err, "read initiate response")
	}

	desc, err := Normalize(payload)
	if err != nil {
		return nil, err
	}

	plan := Resolve(desc, n.proxyEndpoint)
	logger.Ctx(ctx).Debug().
		Str("strategy", string(plan.Strategy())).
		Str("storage_key", desc.StorageKey).
		Msg("resolved upload session")

	return plan, nil
}
