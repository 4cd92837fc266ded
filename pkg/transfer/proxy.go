// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
	"github.com/brightclass/mediaup/pkg/types"
)

// proxyResponse tolerates the same dual naming as the initiate route. Unlike
// initiate and complete, a bare `{"success": true}` with no payload is a
// valid answer here, so the body is decoded in place rather than going
// through the envelope unwrap.
type proxyResponse struct {
	Success *bool  `json:"success"`
	OK      *bool  `json:"ok"`
	Error   string `json:"error"`

	MediaFileID  string `json:"media_file_id"`
	MediaFileIDC string `json:"mediaFileId"`

	CdnURL  string `json:"cdn_url"`
	CdnURLC string `json:"cdnUrl"`

	ProcessingStatus string `json:"processing_status"`
}

// executeProxy re-encodes the file as a multipart body together with the
// destination key and posts it to the same-origin proxy endpoint. When the
// proxy already registered the media record, the returned receipt carries its
// id so the caller can skip the completion call.
func (e *Executor) executeProxy(ctx context.Context, plan session.ProxyPlan, file File, onProgress ProgressFunc) (*Receipt, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("storage_key", plan.Session.StorageKey); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "write storage key field")
	}

	part, err := createFilePart(w, "file", file.Name, file.ContentType)
	if err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "create file part")
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "read file")
	}
	if err := w.Close(); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "finalize form")
	}

	header := http.Header{}
	header.Set("Content-Type", w.FormDataContentType())
	for k, vals := range e.proxyHeader {
		for _, v := range vals {
			header.Add(k, v)
		}
	}

	payload, err := e.send(ctx, http.MethodPost, plan.Endpoint, header, &buf, int64(buf.Len()), onProgress)
	if err != nil {
		return nil, err
	}

	var pr proxyResponse
	if err := json.Unmarshal(payload, &pr); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}
	flag := pr.Success
	if flag == nil {
		flag = pr.OK
	}
	if flag != nil && !*flag {
		msg := pr.Error
		if msg == "" {
			msg = "proxy upload rejected"
		}
		return nil, mediaerr.New(mediaerr.ErrNetwork, msg)
	}

	receipt := &Receipt{}
	id := pr.MediaFileID
	if id == "" {
		id = pr.MediaFileIDC
	}
	if id != "" {
		cdn := pr.CdnURL
		if cdn == "" {
			cdn = pr.CdnURLC
		}
		receipt.MediaInfo = &types.MediaInfo{
			ID:               id,
			CdnURL:           cdn,
			ProcessingStatus: types.ProcessingStatus(pr.ProcessingStatus),
		}
	}
	return receipt, nil
}
