// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
)

// ContentSha1Header is the header whose placeholder value a B2-native session
// expects replaced with the real digest of the body.
const ContentSha1Header = "X-Bz-Content-Sha1"

// executeB2Native sends the raw file bytes to the storage endpoint. The whole
// file is read into memory first so the SHA-1 placed in the content-hash
// header is computed over exactly the bytes transmitted. This is the only
// strategy paying that memory cost; a streaming hash would change memory and
// timing behavior and is deliberately not done here.
func (e *Executor) executeB2Native(ctx context.Context, plan session.B2NativePlan, file File, onProgress ProgressFunc) (*Receipt, error) {
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "read file for hashing")
	}

	sum := sha1.Sum(data)
	digest := hex.EncodeToString(sum[:])

	header := make(http.Header, len(plan.Headers)+1)
	for k, v := range plan.Headers {
		header.Set(k, v)
	}
	header.Set(ContentSha1Header, digest)

	// send sets the request ContentLength from the size argument; B2 rejects
	// chunked bodies, so the exact length always goes out.
	if _, err := e.send(ctx, http.MethodPost, plan.URL, header, bytes.NewReader(data), int64(len(data)), onProgress); err != nil {
		return nil, err
	}
	return &Receipt{}, nil
}
