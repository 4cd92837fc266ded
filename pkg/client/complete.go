// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/types"
)

type completeRequest struct {
	SessionKey string `json:"session_key"`
	StorageKey string `json:"storage_key"`
}

// Complete confirms a finished transfer with the backend and returns the
// durable media record. Both identifiers must be non-empty; violations fail
// before any network call, naming the offending argument.
func (c *Client) Complete(ctx context.Context, sessionKey, storageKey string) (*types.MediaFile, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, mediaerr.Field(mediaerr.ErrPrecondition, "sessionKey", "must be a non-empty string")
	}
	if strings.TrimSpace(storageKey) == "" {
		return nil, mediaerr.Field(mediaerr.ErrPrecondition, "storageKey", "must be a non-empty string")
	}

	payload, err := c.doJSON(ctx, http.MethodPost, c.url("/media/upload/complete"), completeRequest{
		SessionKey: sessionKey,
		StorageKey: storageKey,
	})
	if err != nil {
		return nil, err
	}

	// Same envelope ambiguity as initiate, same unwrap contract.
	inner, err := session.UnwrapEnvelope(payload)
	if err != nil {
		return nil, err
	}

	var media types.MediaFile
	if err := json.Unmarshal(inner, &media); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}
	if media.ID == "" {
		return nil, mediaerr.Field(mediaerr.ErrMalformedResponse, "id", "missing from complete response")
	}
	return &media, nil
}
