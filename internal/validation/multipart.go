package validation

import (
	"errors"
	"fmt"
	"net/http"

	internal_errors "github.com/accsvc-dev/accsvc/internal/errors"
)

// ParseMultipart enforces the request size limit and parses the multipart
// form. MaxBytesReader is the security boundary: it stops reading at the
// limit, so an oversized upload cannot exhaust the server no matter how
// large the client's body is.
func ParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", ErrPayloadTooLarge, maxErr.Limit)
		}
		return &internal_errors.ErrorWithStatusCode{Message: "Body is invalid multipart form", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// MaxRequestSize returns the request limit for an upload of maxFileSize,
// with headroom for the other form fields and multipart framing.
func MaxRequestSize(maxFileSize, bufferSize int64) int64 {
	return maxFileSize + bufferSize
}
