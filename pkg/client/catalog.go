// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/types"
)

// listNamespace prefixes every catalog listing cache key. Mutations drop the
// whole namespace rather than single entries: filtered views overlap, so a
// targeted delete would leave stale listings behind.
const listNamespace = "media:list:"

// ListFilters narrows a catalog listing. The zero value lists everything the
// backend defaults to.
type ListFilters struct {
	Page             int
	Limit            int
	Type             string
	ProcessingStatus types.ProcessingStatus
}

func (f ListFilters) key() string {
	return listNamespace + f.query().Encode()
}

func (f ListFilters) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.ProcessingStatus != "" {
		q.Set("processing_status", string(f.ProcessingStatus))
	}
	return q
}

type listResponse struct {
	Data  []types.MediaFile `json:"data"`
	Files []types.MediaFile `json:"files"`
	Media []types.MediaFile `json:"media"`
}

// List returns the user's media catalog for the given filters, served from
// cache while a fresh entry exists for the exact filter key.
func (c *Client) List(ctx context.Context, filters ListFilters) ([]types.MediaFile, error) {
	key := filters.key()

	if data, ok := c.store.Get(ctx, key); ok {
		var cached []types.MediaFile
		if err := json.Unmarshal(data, &cached); err == nil {
			if c.metrics != nil {
				c.metrics.CacheHits.Inc()
			}
			return cached, nil
		}
		// Unreadable entry: fall through to a fresh fetch.
		logger.Ctx(ctx).Warn().Str("key", key).Msg("dropping undecodable cache entry")
	}
	if c.metrics != nil {
		c.metrics.CacheMisses.Inc()
	}

	u := c.url("/media/user/media")
	if q := filters.query().Encode(); q != "" {
		u += "?" + q
	}
	payload, err := c.doJSON(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	files, err := decodeListing(payload)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(files); err == nil {
		c.store.Set(ctx, key, data, c.cacheTTL)
	}
	return files, nil
}

// decodeListing tolerates a raw array or a wrapped collection.
func decodeListing(payload []byte) ([]types.MediaFile, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, mediaerr.New(mediaerr.ErrMalformedResponse, mediaerr.MsgInvalidResponse)
	}

	if trimmed[0] == '[' {
		var files []types.MediaFile
		if err := json.Unmarshal(trimmed, &files); err != nil {
			return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
		}
		return files, nil
	}

	var wrapped listResponse
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}
	switch {
	case wrapped.Data != nil:
		return wrapped.Data, nil
	case wrapped.Files != nil:
		return wrapped.Files, nil
	case wrapped.Media != nil:
		return wrapped.Media, nil
	}
	return nil, mediaerr.New(mediaerr.ErrMalformedResponse, mediaerr.MsgInvalidResponse)
}

// AttachToVideo links a media file to a course video. Invalidates listings.
func (c *Client) AttachToVideo(ctx context.Context, mediaID, videoID string) error {
	if strings.TrimSpace(mediaID) == "" {
		return mediaerr.Field(mediaerr.ErrPrecondition, "mediaID", "must be a non-empty string")
	}
	if strings.TrimSpace(videoID) == "" {
		return mediaerr.Field(mediaerr.ErrPrecondition, "videoID", "must be a non-empty string")
	}

	_, err := c.doJSON(ctx, http.MethodPost, c.url("/media/media/"+url.PathEscape(mediaID)+"/attach-video"),
		map[string]string{"video_id": videoID})
	if err != nil {
		return err
	}
	c.invalidateListings(ctx)
	return nil
}

// Delete removes a media file. Invalidates listings.
func (c *Client) Delete(ctx context.Context, mediaID string) error {
	if strings.TrimSpace(mediaID) == "" {
		return mediaerr.Field(mediaerr.ErrPrecondition, "mediaID", "must be a non-empty string")
	}

	_, err := c.doJSON(ctx, http.MethodDelete, c.url("/media/media/"+url.PathEscape(mediaID)), nil)
	if err != nil {
		return err
	}
	c.invalidateListings(ctx)
	return nil
}

// Reprocess asks the backend to run processing again. Invalidates listings.
func (c *Client) Reprocess(ctx context.Context, mediaID string) error {
	if strings.TrimSpace(mediaID) == "" {
		return mediaerr.Field(mediaerr.ErrPrecondition, "mediaID", "must be a non-empty string")
	}

	_, err := c.doJSON(ctx, http.MethodPost, c.url("/media/media/"+url.PathEscape(mediaID)+"/process"), nil)
	if err != nil {
		return err
	}
	c.invalidateListings(ctx)
	return nil
}

func (c *Client) invalidateListings(ctx context.Context) {
	c.store.DeletePrefix(ctx, listNamespace)
}
