package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/mediaup/pkg/mediaerr"
)

func TestNormalize_EnvelopeShapes(t *testing.T) {
	// The same inner descriptor wrapped three ways must normalize
	// identically.
	bodies := map[string]string{
		"ok envelope":      `{"data": {"session_key": "s1", "storage_key": "k1"}, "ok": true}`,
		"success envelope": `{"data": {"session_key": "s1", "storage_key": "k1"}, "success": true}`,
		"raw object":       `{"session_key": "s1", "storage_key": "k1"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			d, err := Normalize([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, "s1", d.SessionKey)
			assert.Equal(t, "k1", d.StorageKey)
		})
	}
}

func TestNormalize_FieldNamings(t *testing.T) {
	backend := `{
		"session_key": "s1", "storage_key": "k1", "upload_url": "https://storage.test/put",
		"method": "PUT", "headers": {"Authorization": "x"}, "cdn_url": "https://cdn.test/k1"
	}`
	client := `{
		"sessionKey": "s1", "storageKey": "k1", "uploadUrl": "https://storage.test/put",
		"httpMethod": "PUT", "uploadHeaders": {"Authorization": "x"}, "cdnUrl": "https://cdn.test/k1"
	}`

	for name, body := range map[string]string{"backend naming": backend, "client naming": client} {
		t.Run(name, func(t *testing.T) {
			d, err := Normalize([]byte(body))
			require.NoError(t, err)
			assert.Equal(t, "s1", d.SessionKey)
			assert.Equal(t, "k1", d.StorageKey)
			assert.Equal(t, "https://storage.test/put", d.UploadURL)
			assert.Equal(t, "PUT", d.Method)
			assert.Equal(t, map[string]string{"Authorization": "x"}, d.Headers)
			assert.Equal(t, "https://cdn.test/k1", d.CdnURL)
		})
	}
}

func TestNormalize_BackendNamingWins(t *testing.T) {
	d, err := Normalize([]byte(`{"session_key": "backend", "sessionKey": "client", "storage_key": "k1"}`))
	require.NoError(t, err)
	assert.Equal(t, "backend", d.SessionKey)
}

func TestNormalize_MissingIdentifiers(t *testing.T) {
	_, err := Normalize([]byte(`{"storage_key": "k1"}`))
	require.Error(t, err)
	assert.Equal(t, mediaerr.ErrMalformedResponse, mediaerr.CodeOf(err))
	assert.Contains(t, err.Error(), "sessionKey")

	_, err = Normalize([]byte(`{"session_key": "s1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storageKey")
}

func TestNormalize_FalseEnvelopeFlag(t *testing.T) {
	_, err := Normalize([]byte(`{"data": null, "success": false, "error": "quota exceeded"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestUnwrapEnvelope_EmptyBody(t *testing.T) {
	for _, body := range [][]byte{nil, []byte(""), []byte("  \n")} {
		_, err := UnwrapEnvelope(body)
		require.Error(t, err)
		assert.Equal(t, mediaerr.ErrMalformedResponse, mediaerr.CodeOf(err))
		assert.Contains(t, err.Error(), mediaerr.MsgInvalidResponse)
	}
}

func TestUnwrapEnvelope_FlagWithoutData(t *testing.T) {
	_, err := UnwrapEnvelope([]byte(`{"ok": true}`))
	require.Error(t, err)
	assert.Equal(t, mediaerr.ErrMalformedResponse, mediaerr.CodeOf(err))
}

func TestFormFields_PreserveOrder(t *testing.T) {
	body := `{
		"session_key": "s1", "storage_key": "k1", "upload_url": "https://s3.test/bucket",
		"fields": {"key": "k1", "policy": "cG9saWN5", "x-amz-credential": "cred", "x-amz-signature": "sig"}
	}`

	d, err := Normalize([]byte(body))
	require.NoError(t, err)

	want := []FormField{
		{Name: "key", Value: "k1"},
		{Name: "policy", Value: "cG9saWN5"},
		{Name: "x-amz-credential", Value: "cred"},
		{Name: "x-amz-signature", Value: "sig"},
	}
	assert.Equal(t, want, d.Fields)
}

func TestFormFields_RoundTrip(t *testing.T) {
	fields := FormFields{{Name: "b", Value: "2"}, {Name: "a", Value: "1"}}
	data, err := fields.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":"2","a":"1"}`, string(data))

	var back FormFields
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, fields, back)
}
