package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

const defaultMaxUploadBytes = 5 << 20

// UploadIntake validates a client file and buffers it in memory. Nothing is
// written to local disk.
type UploadIntake struct {
	maxBytes int64
}

func NewUploadIntake(maxBytes int64) *UploadIntake {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &UploadIntake{maxBytes: maxBytes}
}

// Read checks the declared MIME type, then the declared size, then buffers at
// most maxBytes+1 bytes so a part that lies about its size is still caught.
// The sniffed content type must also be an image.
func (in *UploadIntake) Read(f ports.FileUpload) (*domain.UploadedAsset, error) {
	if !isImage(f.ContentType) {
		return nil, domain.ErrUnsupportedMediaType
	}
	if f.Size > in.maxBytes {
		return nil, domain.ErrPayloadTooLarge
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, in.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > in.maxBytes {
		return nil, domain.ErrPayloadTooLarge
	}
	if !isImage(mimetype.Detect(data).String()) {
		return nil, domain.ErrUnsupportedMediaType
	}

	return &domain.UploadedAsset{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func isImage(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}
