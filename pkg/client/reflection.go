// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/validate"
)

// ReflectionRecord is a completed media record plus the reflection fields
// submitted as one unit after the underlying media upload finished.
type ReflectionRecord struct {
	MediaFileID string            `json:"media_file_id"`
	CourseID    string            `json:"course_id,omitempty"`
	Category    validate.Category `json:"category"`
	Title       string            `json:"title"`
	Notes       string            `json:"notes,omitempty"`
}

// Reflection is the stored record the backend returns.
type Reflection struct {
	ID          string    `json:"id"`
	MediaFileID string    `json:"media_file_id"`
	CourseID    string    `json:"course_id,omitempty"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

// SubmitReflection posts the whole record with exponential backoff. The
// retry covers record submission only, never the raw byte transfer: a failed
// transfer always needs a fresh session. Client-side failures (auth,
// precondition, malformed input) are permanent and not retried.
func (c *Client) SubmitReflection(ctx context.Context, rec ReflectionRecord) (*Reflection, error) {
	if strings.TrimSpace(rec.MediaFileID) == "" {
		return nil, mediaerr.Field(mediaerr.ErrPrecondition, "mediaFileID", "must be a non-empty string")
	}
	if strings.TrimSpace(rec.Title) == "" {
		return nil, mediaerr.Field(mediaerr.ErrPrecondition, "title", "must be a non-empty string")
	}

	var out *Reflection
	operation := func() error {
		payload, err := c.doJSON(ctx, http.MethodPost, c.url("/media/reflections"), rec)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			logger.Ctx(ctx).Warn().Err(err).Msg("reflection submission failed, will retry")
			return err
		}

		inner, err := session.UnwrapEnvelope(payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		var r Reflection
		if err := json.Unmarshal(inner, &r); err != nil {
			return backoff.Permanent(mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse))
		}
		out = &r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return out, nil
}

// retryable reports whether a failure class can succeed on a later attempt
// without the caller changing anything.
func retryable(err error) bool {
	switch mediaerr.CodeOf(err) {
	case mediaerr.ErrNetwork, mediaerr.ErrTimeout:
		return true
	}
	return false
}
