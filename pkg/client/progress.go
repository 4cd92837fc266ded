// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/types"
)

// Progress is the polling fallback for observing an upload outside the
// active transfer, e.g. backend-side processing after the bytes arrived.
func (c *Client) Progress(ctx context.Context, sessionKey string) (*types.UploadProgress, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, mediaerr.Field(mediaerr.ErrPrecondition, "sessionKey", "must be a non-empty string")
	}

	payload, err := c.doJSON(ctx, http.MethodGet, c.url("/media/upload/progress/"+url.PathEscape(sessionKey)), nil)
	if err != nil {
		return nil, err
	}

	var p types.UploadProgress
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}
	return &p, nil
}

// WatchProgress polls the progress endpoint until a terminal status or ctx
// cancellation, invoking fn for every observation. The limiter caps request
// rate at one poll per interval regardless of backend latency.
func (c *Client) WatchProgress(ctx context.Context, sessionKey string, interval time.Duration, fn func(types.UploadProgress)) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		p, err := c.Progress(ctx, sessionKey)
		if err != nil {
			return err
		}
		if fn != nil {
			fn(*p)
		}
		if p.Status.Terminal() {
			return nil
		}
	}
}
