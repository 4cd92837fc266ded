package validate

import (
	"testing"

	"github.com/dustin/go-humanize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightclass/mediaup/pkg/mediaerr"
)

func TestGenericVideo_SizeCeiling(t *testing.T) {
	// Exactly at the ceiling passes, one byte over fails.
	assert.NoError(t, GenericVideo.Check("video/mp4", 500*humanize.MiByte))

	err := GenericVideo.Check("video/mp4", 500*humanize.MiByte+1)
	require.Error(t, err)
	assert.Equal(t, mediaerr.ErrValidation, mediaerr.CodeOf(err))
	assert.Contains(t, err.Error(), "500 MiB")
}

func TestGenericVideo_TypeAllowList(t *testing.T) {
	assert.NoError(t, GenericVideo.Check("video/webm", 1024))
	assert.NoError(t, GenericVideo.Check("video/mp4; codecs=avc1", 1024))

	for _, ct := range []string{"application/pdf", "audio/mpeg", "image/png", ""} {
		err := GenericVideo.Check(ct, 1024)
		require.Error(t, err, "content type %q", ct)
		assert.Equal(t, mediaerr.ErrValidation, mediaerr.CodeOf(err))
	}
}

func TestGenericVideo_EmptyFile(t *testing.T) {
	err := GenericVideo.Check("video/mp4", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReflectionPolicies_DistinctCeilings(t *testing.T) {
	tests := []struct {
		category Category
		ctype    string
		limit    int64
	}{
		{CategoryAudio, "audio/webm", 50 * humanize.MiByte},
		{CategoryImage, "image/jpeg", 10 * humanize.MiByte},
		{CategoryVideo, "video/mp4", 100 * humanize.MiByte},
	}

	for _, tt := range tests {
		p, ok := ReflectionPolicy(tt.category)
		require.True(t, ok, "category %s", tt.category)
		assert.NoError(t, p.Check(tt.ctype, tt.limit))
		assert.Error(t, p.Check(tt.ctype, tt.limit+1))
	}

	// A 200 MB video passes the generic policy but not the reflection one.
	size := int64(200 * humanize.MiByte)
	assert.NoError(t, GenericVideo.Check("video/mp4", size))
	p, _ := ReflectionPolicy(CategoryVideo)
	assert.Error(t, p.Check("video/mp4", size))
}

func TestReflectionPolicy_UnknownCategory(t *testing.T) {
	_, ok := ReflectionPolicy(Category("document"))
	assert.False(t, ok)
}
