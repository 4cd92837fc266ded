// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"context"
	"net/http"

	"github.com/brightclass/mediaup/pkg/session"
)

// executeSignedURL sends the raw file bytes to the presigned URL with the
// session's method and every header the session specified, verbatim. No
// multipart wrapping and no hash substitution: a placeholder hash header on a
// signed-url session goes out unmodified.
func (e *Executor) executeSignedURL(ctx context.Context, plan session.SignedURLPlan, file File, onProgress ProgressFunc) (*Receipt, error) {
	method := plan.Method
	if method == "" {
		method = http.MethodPut
	}

	header := make(http.Header, len(plan.Headers))
	for k, v := range plan.Headers {
		header.Set(k, v)
	}

	if _, err := e.send(ctx, method, plan.URL, header, file.Content, file.Size, onProgress); err != nil {
		return nil, err
	}
	return &Receipt{}, nil
}
