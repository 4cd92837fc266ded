// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	mctx "github.com/brightclass/mediaup/pkg/context"
	"github.com/brightclass/mediaup/pkg/logger"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/transfer"
	"github.com/brightclass/mediaup/pkg/types"
	"github.com/brightclass/mediaup/pkg/validate"
)

// UploadRequest describes one upload attempt.
type UploadRequest struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader

	// CourseID optionally groups the upload under a course.
	CourseID string

	// Policy defaults to validate.GenericVideo when nil.
	Policy *validate.Policy

	// OnProgress receives status and percentage updates for the attempt.
	OnProgress func(types.UploadProgress)
}

// UploadResult is the success payload of one attempt. Media is the durable
// record; MediaInfo is set additionally when the proxy path registered the
// record itself.
type UploadResult struct {
	Media      *types.MediaFile
	MediaInfo  *types.MediaInfo
	SessionKey string
	StorageKey string
	CdnURL     string
}

// Upload runs the whole pipeline: validate, negotiate, transfer, complete,
// invalidate the catalog cache. Each stage short-circuits on failure and no
// later stage runs. Sessions are single-use: a failed attempt is not
// retried in place, the next call negotiates a fresh session. Cancellation
// goes through ctx.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ctx, _ = mctx.WithUUID(ctx)
	start := time.Now()

	policy := validate.GenericVideo
	if req.Policy != nil {
		policy = *req.Policy
	}
	if err := policy.Check(req.ContentType, req.Size); err != nil {
		// Rejected locally: no loading state, no network call was made.
		return nil, err
	}

	report(req.OnProgress, 0, types.UploadPending)

	plan, err := c.neg.Negotiate(ctx, session.FileInfo{
		Name:        req.Filename,
		Size:        req.Size,
		ContentType: req.ContentType,
	}, req.CourseID)
	if err != nil {
		report(req.OnProgress, 0, types.UploadFailed)
		return nil, err
	}

	report(req.OnProgress, 0, types.UploadUploading)

	receipt, err := c.exec.Execute(ctx, plan, transfer.File{
		Name:        req.Filename,
		ContentType: req.ContentType,
		Size:        req.Size,
		Content:     req.Content,
	}, func(pct int) {
		report(req.OnProgress, pct, types.UploadUploading)
	})
	c.observeAttempt(plan.Strategy(), req.Size, start, err)
	if err != nil {
		report(req.OnProgress, 0, types.UploadFailed)
		return nil, err
	}

	meta := plan.Meta()
	result := &UploadResult{
		MediaInfo:  receipt.MediaInfo,
		SessionKey: meta.SessionKey,
		StorageKey: meta.StorageKey,
		CdnURL:     meta.CdnURL,
	}

	// A proxy response that already carries the media id makes the
	// completion call redundant.
	if receipt.MediaInfo == nil {
		report(req.OnProgress, 100, types.UploadProcessing)
		media, err := c.Complete(ctx, meta.SessionKey, meta.StorageKey)
		if err != nil {
			report(req.OnProgress, 100, types.UploadFailed)
			return nil, err
		}
		result.Media = media
		if result.CdnURL == "" {
			result.CdnURL = media.CdnURL
		}
	} else if result.CdnURL == "" {
		result.CdnURL = receipt.MediaInfo.CdnURL
	}

	c.invalidateListings(ctx)
	report(req.OnProgress, 100, types.UploadCompleted)

	logger.Ctx(ctx).Info().
		Str("strategy", string(plan.Strategy())).
		Str("storage_key", meta.StorageKey).
		Int64("size", req.Size).
		Dur("elapsed", time.Since(start)).
		Msg("upload finished")

	return result, nil
}

// UploadFile uploads a file from disk, inferring content type from the
// extension.
func (c *Client) UploadFile(ctx context.Context, path, courseID string, onProgress func(types.UploadProgress)) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	return c.Upload(ctx, UploadRequest{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Content:     f,
		CourseID:    courseID,
		OnProgress:  onProgress,
	})
}

func report(fn func(types.UploadProgress), pct int, status types.UploadStatus) {
	if fn != nil {
		fn(types.UploadProgress{Percent: pct, Status: status})
	}
}

func (c *Client) observeAttempt(strategy session.Strategy, size int64, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.metrics.UploadsTotal.WithLabelValues(string(strategy), outcome).Inc()
	c.metrics.UploadBytes.Add(float64(size))
	c.metrics.UploadDuration.Observe(time.Since(start).Seconds())
}
