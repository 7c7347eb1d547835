package validation

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"path/filepath"

	_ "golang.org/x/image/webp"
)

// PendingImage is a validated upload that has not been written to storage yet.
type PendingImage struct {
	Filename  string
	Extension string
	SizeBytes int64
	MimeType  string
	Data      multipart.File
}

// ValidateImage checks the upload against the size limit and the MIME
// allow-list, then opens it. The caller owns Data and must close it.
func ValidateImage(fileHeader *multipart.FileHeader, maxSize int64, allowedMimes []string) (*PendingImage, error) {
	if fileHeader.Size > maxSize {
		return nil, fmt.Errorf("%w: file %s is %d bytes, limit is %d", ErrPayloadTooLarge, fileHeader.Filename, fileHeader.Size, maxSize)
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, m := range allowedMimes {
		if m == mimeType {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	// Decode the header to confirm the content is really an image and not
	// just a file with an image extension.
	if _, _, err := image.DecodeConfig(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: content of %s is not a decodable image", ErrInvalidMimeType, fileHeader.Filename)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	return &PendingImage{
		Filename:  fileHeader.Filename,
		Extension: filepath.Ext(fileHeader.Filename),
		SizeBytes: fileHeader.Size,
		MimeType:  mimeType,
		Data:      file,
	}, nil
}

// DetectMimeType resolves the upload's MIME type, falling back to the file
// extension when the client sent nothing useful.
func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := mime.TypeByExtension(filepath.Ext(fileHeader.Filename)); detected != "" {
			mimeType = detected
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	return mimeType, nil
}
