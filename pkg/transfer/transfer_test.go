package transfer

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"math/rand"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/mediaup/pkg/mediaerr"
	"github.com/brightclass/mediaup/pkg/session"
)

func testMeta() session.Meta {
	return session.Meta{SessionKey: "sess-1", StorageKey: "uploads/u1/video.mp4"}
}

func fileOf(data []byte) File {
	return File{
		Name:        "video.mp4",
		ContentType: "video/mp4",
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	data := make([]byte, n)
	rng := rand.New(rand.NewSource(42))
	_, err := rng.Read(data)
	require.NoError(t, err)
	return data
}

func TestSignedURL_RawBodyAndHeaders(t *testing.T) {
	data := randomBytes(t, 4096)

	var gotBody []byte
	var gotMethod, gotAuth, gotHash string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotHash = r.Header.Get(ContentSha1Header)
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	plan := session.SignedURLPlan{
		Session: testMeta(),
		URL:     srv.URL,
		Method:  http.MethodPut,
		Headers: map[string]string{
			"Authorization":   "AWS4-HMAC-SHA256 ...",
			ContentSha1Header: "hex_digits_at_end", // placeholder on a non-B2 session
		},
	}

	receipt, err := NewExecutor().Execute(context.Background(), plan, fileOf(data), nil)
	require.NoError(t, err)
	assert.Nil(t, receipt.MediaInfo)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "AWS4-HMAC-SHA256 ...", gotAuth)
	// Raw bytes, no multipart wrapping, placeholder untouched.
	assert.Equal(t, data, gotBody)
	assert.Equal(t, "hex_digits_at_end", gotHash)
}

func TestB2Native_HashMatchesTransmittedBody(t *testing.T) {
	sizes := map[string]int{
		"one byte": 1,
		"bulk":     10 << 20,
	}

	for name, size := range sizes {
		t.Run(name, func(t *testing.T) {
			data := randomBytes(t, size)

			var gotBody []byte
			var gotHash, gotToken string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotBody, _ = io.ReadAll(r.Body)
				gotHash = r.Header.Get(ContentSha1Header)
				gotToken = r.Header.Get("Authorization")
			}))
			defer srv.Close()

			plan := session.B2NativePlan{
				Session: testMeta(),
				URL:     srv.URL,
				Headers: map[string]string{
					"Authorization":   "b2-token",
					ContentSha1Header: "hex_digits_at_end",
				},
			}

			_, err := NewExecutor().Execute(context.Background(), plan, fileOf(data), nil)
			require.NoError(t, err)

			sum := sha1.Sum(gotBody)
			assert.Equal(t, hex.EncodeToString(sum[:]), gotHash,
				"hash header must equal the digest of the transmitted bytes")
			assert.Equal(t, data, gotBody)
			assert.Equal(t, "b2-token", gotToken)
		})
	}
}

func TestS3Form_FieldsFirstInOrderFileLast(t *testing.T) {
	data := randomBytes(t, 10 << 20)

	type part struct {
		name     string
		filename string
		value    []byte
	}
	var parts []part
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			p, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			require.NoError(t, err)
			val, _ := io.ReadAll(p)
			parts = append(parts, part{name: p.FormName(), filename: p.FileName(), value: val})
		}
	}))
	defer srv.Close()

	plan := session.S3FormPlan{
		Session: testMeta(),
		URL:     srv.URL,
		Fields: []session.FormField{
			{Name: "key", Value: "uploads/u1/video.mp4"},
			{Name: "policy", Value: "eyJleHBpcmF0aW9uIi4uLg=="},
			{Name: "x-amz-signature", Value: "abc123"},
		},
	}

	_, err := NewExecutor().Execute(context.Background(), plan, fileOf(data), nil)
	require.NoError(t, err)

	require.Len(t, parts, 4)
	assert.Equal(t, "key", parts[0].name)
	assert.Equal(t, "policy", parts[1].name)
	assert.Equal(t, "x-amz-signature", parts[2].name)
	assert.Equal(t, "file", parts[3].name)
	assert.Equal(t, "video.mp4", parts[3].filename)
	assert.Equal(t, data, parts[3].value)
}

func TestProxy_ThreadsMediaInfoBack(t *testing.T) {
	data := randomBytes(t, 2048)

	var gotKey string
	var gotFile []byte
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(10<<20))
		gotKey = r.FormValue("storage_key")
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		gotFile, _ = io.ReadAll(f)
		w.Write([]byte(`{"success": true, "media_file_id": "m1", "cdn_url": "https://cdn.test/m1"}`))
	}))
	defer srv.Close()

	plan := session.ProxyPlan{Session: testMeta(), Endpoint: srv.URL}
	exec := NewExecutor(WithProxyHeader(http.Header{"Authorization": []string{"Bearer tok"}}))

	receipt, err := exec.Execute(context.Background(), plan, fileOf(data), nil)
	require.NoError(t, err)

	require.NotNil(t, receipt.MediaInfo)
	assert.Equal(t, "m1", receipt.MediaInfo.ID)
	assert.Equal(t, "https://cdn.test/m1", receipt.MediaInfo.CdnURL)
	assert.Equal(t, "uploads/u1/video.mp4", gotKey)
	assert.Equal(t, data, gotFile)
	assert.Equal(t, "Bearer tok", gotAuth)
}

func TestProxy_SuccessWithoutMediaInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	plan := session.ProxyPlan{Session: testMeta(), Endpoint: srv.URL}
	receipt, err := NewExecutor().Execute(context.Background(), plan, fileOf([]byte("x")), nil)
	require.NoError(t, err)
	assert.Nil(t, receipt.MediaInfo)
}

func TestProxy_BackendReportedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Write([]byte(`{"success": false, "error": "storage unavailable"}`))
	}))
	defer srv.Close()

	plan := session.ProxyPlan{Session: testMeta(), Endpoint: srv.URL}
	_, err := NewExecutor().Execute(context.Background(), plan, fileOf([]byte("x")), nil)
	require.Error(t, err)
	assert.Equal(t, mediaerr.ErrNetwork, mediaerr.CodeOf(err))
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestExecute_AuthAndTooLargeStatuses(t *testing.T) {
	tests := []struct {
		status int
		code   mediaerr.Code
	}{
		{http.StatusUnauthorized, mediaerr.ErrAuth},
		{http.StatusRequestEntityTooLarge, mediaerr.ErrPayloadTooLarge},
		{http.StatusBadGateway, mediaerr.ErrNetwork},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(tt.status)
		}))

		plan := session.SignedURLPlan{Session: testMeta(), URL: srv.URL, Method: http.MethodPut}
		_, err := NewExecutor().Execute(context.Background(), plan, fileOf([]byte("x")), nil)
		srv.Close()

		require.Error(t, err, "status %d", tt.status)
		assert.Equal(t, tt.code, mediaerr.CodeOf(err), "status %d", tt.status)
	}
}

func TestExecute_AttemptBudgetIsTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	plan := session.SignedURLPlan{Session: testMeta(), URL: srv.URL, Method: http.MethodPut}
	exec := NewExecutor(WithAttemptBudget(50 * time.Millisecond))

	_, err := exec.Execute(context.Background(), plan, fileOf([]byte("x")), nil)
	require.Error(t, err)
	assert.Equal(t, mediaerr.ErrTimeout, mediaerr.CodeOf(err))
}

func TestProgress_MonotonicPercentages(t *testing.T) {
	data := randomBytes(t, 1<<20)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
	}))
	defer srv.Close()

	var seen []int
	plan := session.SignedURLPlan{Session: testMeta(), URL: srv.URL, Method: http.MethodPut}
	_, err := NewExecutor().Execute(context.Background(), plan, fileOf(data), func(pct int) {
		seen = append(seen, pct)
	})
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i], seen[i-1], "percentages must strictly increase per callback")
	}
	assert.Equal(t, 100, seen[len(seen)-1])
	for _, p := range seen {
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
}

func TestProgressReader_ZeroTotal(t *testing.T) {
	called := false
	r := newProgressReader(bytes.NewReader([]byte("abc")), 0, func(int) { called = true })
	_, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.False(t, called, "no callbacks without a known total")
}
