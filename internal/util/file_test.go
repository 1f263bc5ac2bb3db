package util

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

func TestValidateMimeTypeAllowed(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeImage})
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestValidateMimeTypeRejected(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader(pngHeader), []string{MimeVideo})
	assert.Error(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestValidateMimeTypePrefixMatch(t *testing.T) {
	body := []byte("plain text body")
	mime, err := ValidateMimeType(bytes.NewReader(body), []string{"text/"})
	require.NoError(t, err)
	assert.Contains(t, mime, "text/plain")
}

func TestIsImageIsVideo(t *testing.T) {
	assert.True(t, IsImage("image/png"))
	assert.False(t, IsImage("video/mp4"))
	assert.True(t, IsVideo("video/mp4"))
	assert.True(t, IsVideo("application/x-mpegURL"))
	assert.False(t, IsVideo("application/pdf"))
}
