// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package transfer

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
)

// executeS3Form posts a multipart form to the presigned POST URL. The
// session's presigned fields come first, in the order the backend supplied
// them; the file is the final part. The receiving side validates the policy
// fields positionally, before it will read the file part.
func (e *Executor) executeS3Form(ctx context.Context, plan session.S3FormPlan, file File, onProgress ProgressFunc) (*Receipt, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range plan.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, mediaerr.Wrap(mediaerr.ErrPrecondition, err, "write presigned field")
		}
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

	if _, err := e.send(ctx, http.MethodPost, plan.URL, header, &buf, int64(buf.Len()), onProgress); err != nil {
		return nil, err
	}
	return &Receipt{}, nil
}

// createFilePart writes a file part carrying the declared content type
// instead of the application/octet-stream default of CreateFormFile.
func createFilePart(w *multipart.Writer, fieldName, fileName, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(fieldName)+`"; filename="`+escapeQuotes(fileName)+`"`)
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
