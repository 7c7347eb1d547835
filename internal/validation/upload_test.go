package validation

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))))
	return buf.Bytes()
}

func uploadHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	wr := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := wr.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, wr.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", wr.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	require.Len(t, req.MultipartForm.File["image"], 1)
	return req.MultipartForm.File["image"][0]
}

var allowedMimes = []string{"image/jpeg", "image/png"}

const maxImageSize = 5 << 20

func TestValidateImage(t *testing.T) {
	t.Run("valid png", func(t *testing.T) {
		fh := uploadHeader(t, "avatar.png", "image/png", pngBytes(t))

		pending, err := ValidateImage(fh, maxImageSize, allowedMimes)
		require.NoError(t, err)
		defer pending.Data.Close()

		assert.Equal(t, "avatar.png", pending.Filename)
		assert.Equal(t, ".png", pending.Extension)
		assert.Equal(t, "image/png", pending.MimeType)
		assert.Positive(t, pending.SizeBytes)
	})

	t.Run("disallowed mime type", func(t *testing.T) {
		fh := uploadHeader(t, "notes.txt", "text/plain", []byte("hello"))

		_, err := ValidateImage(fh, maxImageSize, allowedMimes)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMimeType))
	})

	t.Run("image extension but not an image", func(t *testing.T) {
		fh := uploadHeader(t, "fake.png", "image/png", []byte("definitely not a png"))

		_, err := ValidateImage(fh, maxImageSize, allowedMimes)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMimeType))
	})

	t.Run("mime detected from extension", func(t *testing.T) {
		fh := uploadHeader(t, "avatar.png", "application/octet-stream", pngBytes(t))

		pending, err := ValidateImage(fh, maxImageSize, allowedMimes)
		require.NoError(t, err)
		defer pending.Data.Close()
		assert.Equal(t, "image/png", pending.MimeType)
	})

	t.Run("file over the size limit", func(t *testing.T) {
		content := pngBytes(t)
		fh := uploadHeader(t, "avatar.png", "image/png", content)

		_, err := ValidateImage(fh, int64(len(content))-1, allowedMimes)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPayloadTooLarge))
	})

	t.Run("file exactly at the size limit", func(t *testing.T) {
		content := pngBytes(t)
		fh := uploadHeader(t, "avatar.png", "image/png", content)

		pending, err := ValidateImage(fh, int64(len(content)), allowedMimes)
		require.NoError(t, err)
		pending.Data.Close()
	})
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("a@x.com"))
	assert.NoError(t, Email("first.last+tag@sub.example.org"))
	assert.Error(t, Email("not-an-email"))
	assert.Error(t, Email(""))
	assert.Error(t, Email("a@"))
	// display-name forms parse per RFC 5322 but are not account identifiers
	assert.Error(t, Email("John <a@x.com>"))
	assert.Error(t, Email("\"a\" <a@x.com>"))
	assert.Error(t, Email(" a@x.com"))
}

func TestParseMultipart(t *testing.T) {
	t.Run("malformed body is a bad request, not too large", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", bytes.NewBufferString("not multipart at all"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
		rr := httptest.NewRecorder()

		err := ParseMultipart(req, rr, 1<<20)
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrPayloadTooLarge))

		var statusErr *internal_errors.ErrorWithStatusCode
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 400, statusErr.StatusCode)
	})

	t.Run("body over the request limit", func(t *testing.T) {
		var buf bytes.Buffer
		wr := multipart.NewWriter(&buf)
		part, err := wr.CreateFormFile("image", "big.bin")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0xAB}, 4096))
		require.NoError(t, err)
		require.NoError(t, wr.Close())

		req := httptest.NewRequest("POST", "/", &buf)
		req.Header.Set("Content-Type", wr.FormDataContentType())
		rr := httptest.NewRecorder()

		err = ParseMultipart(req, rr, 1024)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrPayloadTooLarge))
	})
}
