package fs

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImage(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := s.SaveImage(strings.NewReader("image-bytes"), ".png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "img-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	f, err := s.ReadImage(name)
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))
}

func TestSaveImage_UniqueNames(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	n1, err := s.SaveImage(strings.NewReader("a"), ".jpg")
	require.NoError(t, err)
	n2, err := s.SaveImage(strings.NewReader("a"), ".jpg")
	require.NoError(t, err)
	assert.NotEqual(t, n1, n2)
}

func TestSaveImage_SuspiciousExtension(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := s.SaveImage(strings.NewReader("a"), ".jpg/../../escape")
	require.NoError(t, err)
	assert.NotContains(t, name, "/")
}

func TestDeleteImage(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	name, err := s.SaveImage(strings.NewReader("a"), ".png")
	require.NoError(t, err)

	require.NoError(t, s.DeleteImage(name))
	_, err = s.ReadImage(name)
	assert.Error(t, err)

	// deleting twice is fine
	assert.NoError(t, s.DeleteImage(name))
}
