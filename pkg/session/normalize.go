// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/brightclass/mediaup/pkg/mediaerr"
)

// envelope is the optional wrapper some backend routes put around their
// payload. Either `ok` or `success` may carry the flag.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	OK      *bool           `json:"ok"`
	Success *bool           `json:"success"`
	Error   string          `json:"error"`
}

// UnwrapEnvelope accepts either `{data, ok}` / `{data, success}` or a raw
// object and returns the inner object. A wrapper with an explicitly false
// flag is a backend-reported failure. This is the single unwrap contract
// applied at the two call sites that need it (negotiate, complete).
func UnwrapEnvelope(body []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, mediaerr.New(mediaerr.ErrMalformedResponse, mediaerr.MsgInvalidResponse)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}

	flag := env.OK
	if flag == nil {
		flag = env.Success
	}
	if flag != nil {
		if !*flag {
			msg := env.Error
			if msg == "" {
				msg = "request failed"
			}
			return nil, mediaerr.New(mediaerr.ErrNetwork, msg)
		}
		if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
			return nil, mediaerr.New(mediaerr.ErrMalformedResponse, mediaerr.MsgInvalidResponse)
		}
		return env.Data, nil
	}

	// No wrapper flag: the body is the payload. A bare `{data: ...}` without
	// ok/success still unwraps, matching the loosest backend shape.
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data, nil
	}
	return json.RawMessage(body), nil
}

// rawDescriptor mirrors the two namings the initiate route has been observed
// to use: backend-native snake_case and client-native camelCase. Both sets
// are decoded and coalesced, camelCase winning only when snake_case is
// absent.
type rawDescriptor struct {
	SessionKey  string `json:"session_key"`
	SessionKeyC string `json:"sessionKey"`

	StorageKey  string `json:"storage_key"`
	StorageKeyC string `json:"storageKey"`

	UploadURL  string `json:"upload_url"`
	UploadURLC string `json:"uploadUrl"`

	// B2-native sessions carry the storage endpoint here instead of a direct
	// upload target.
	Endpoint  string `json:"endpoint"`
	EndpointC string `json:"endpointUrl"`

	Method  string `json:"method"`
	MethodC string `json:"httpMethod"`

	Headers  map[string]string `json:"headers"`
	HeadersC map[string]string `json:"uploadHeaders"`

	Fields  FormFields `json:"fields"`
	FieldsC FormFields `json:"formFields"`

	UseProxy  *bool `json:"use_proxy"`
	UseProxyC *bool `json:"useProxy"`

	CdnURL  string `json:"cdn_url"`
	CdnURLC string `json:"cdnUrl"`
}

// Descriptor is the normalized session descriptor, one naming, envelope
// removed. It still mixes per-strategy fields; Resolve turns it into a Plan.
type Descriptor struct {
	SessionKey string
	StorageKey string
	UploadURL  string
	Endpoint   string
	Method     string
	Headers    map[string]string
	Fields     []FormField
	UseProxy   bool
	CdnURL     string
}

// Normalize unwraps an optional envelope and reconciles the two field
// namings into one descriptor. It fails when the payload is missing the
// identifiers every strategy requires.
func Normalize(body []byte) (*Descriptor, error) {
	payload, err := UnwrapEnvelope(body)
	if err != nil {
		return nil, err
	}

	var raw rawDescriptor
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, mediaerr.Wrap(mediaerr.ErrMalformedResponse, err, mediaerr.MsgInvalidResponse)
	}

	d := &Descriptor{
		SessionKey: coalesce(raw.SessionKey, raw.SessionKeyC),
		StorageKey: coalesce(raw.StorageKey, raw.StorageKeyC),
		UploadURL:  coalesce(raw.UploadURL, raw.UploadURLC),
		Endpoint:   coalesce(raw.Endpoint, raw.EndpointC),
		Method:     coalesce(raw.Method, raw.MethodC),
		CdnURL:     coalesce(raw.CdnURL, raw.CdnURLC),
		Headers:    raw.Headers,
	}
	if d.Headers == nil {
		d.Headers = raw.HeadersC
	}
	d.Fields = raw.Fields
	if d.Fields == nil {
		d.Fields = raw.FieldsC
	}
	if raw.UseProxy != nil {
		d.UseProxy = *raw.UseProxy
	} else if raw.UseProxyC != nil {
		d.UseProxy = *raw.UseProxyC
	}

	if d.SessionKey == "" {
		return nil, mediaerr.Field(mediaerr.ErrMalformedResponse, "sessionKey", "missing from initiate response")
	}
	if d.StorageKey == "" {
		return nil, mediaerr.Field(mediaerr.ErrMalformedResponse, "storageKey", "missing from initiate response")
	}
	return d, nil
}

func coalesce(backend, client string) string {
	if backend != "" {
		return backend
	}
	return client
}

// FormFields decodes a JSON object while preserving its field order. The
// receiving storage backend validates presigned fields positionally, so the
// usual map decoding would corrupt the form.
type FormFields []FormField

func (f *FormFields) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("presigned fields: expected object, got %v", tok)
	}

	var fields []FormField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)

		var val string
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("presigned field %q: %w", key, err)
		}
		fields = append(fields, FormField{Name: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = fields
	return nil
}

func (f FormFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(field.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(field.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
