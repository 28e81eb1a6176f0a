package service

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type trackedReader struct {
	*bytes.Reader
	closed bool
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

func fileUpload(contentType string, data []byte) (ports.FileUpload, *trackedReader, *int) {
	opened := 0
	rd := &trackedReader{Reader: bytes.NewReader(data)}
	return ports.FileUpload{
		Filename:    "photo.png",
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			opened++
			return rd, nil
		},
	}, rd, &opened
}

func pngOfSize(n int) []byte {
	data := make([]byte, n)
	copy(data, pngHeader)
	return data
}

func TestUploadIntake_AcceptsImage(t *testing.T) {
	intake := NewUploadIntake(1024)
	f, rd, _ := fileUpload("image/png", pngOfSize(512))

	asset, err := intake.Read(f)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if asset.Size != 512 || len(asset.Data) != 512 {
		t.Fatalf("unexpected asset size: %d/%d", asset.Size, len(asset.Data))
	}
	if asset.ContentType != "image/png" {
		t.Fatalf("unexpected content type: %s", asset.ContentType)
	}
	if !rd.closed {
		t.Fatalf("upload reader was not closed")
	}
}

func TestUploadIntake_RejectsNonImageBeforeOpening(t *testing.T) {
	intake := NewUploadIntake(1024)
	f, _, opened := fileUpload("text/plain", []byte("hello"))

	if _, err := intake.Read(f); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
	if *opened != 0 {
		t.Fatalf("file must not be opened when the type is rejected")
	}
}

func TestUploadIntake_TypeCheckedBeforeSize(t *testing.T) {
	intake := NewUploadIntake(4)
	f, _, _ := fileUpload("application/pdf", make([]byte, 64))

	if _, err := intake.Read(f); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType first, got %v", err)
	}
}

func TestUploadIntake_RejectsDeclaredOversize(t *testing.T) {
	intake := NewUploadIntake(1024)
	f, _, opened := fileUpload("image/png", pngOfSize(2048))

	if _, err := intake.Read(f); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if *opened != 0 {
		t.Fatalf("file must not be opened when the declared size is too large")
	}
}

func TestUploadIntake_RejectsUnderDeclaredSize(t *testing.T) {
	intake := NewUploadIntake(1024)
	f, rd, _ := fileUpload("image/png", pngOfSize(4096))
	f.Size = 10

	if _, err := intake.Read(f); !errors.Is(err, domain.ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge, got %v", err)
	}
	if !rd.closed {
		t.Fatalf("upload reader was not closed on failure")
	}
}

func TestUploadIntake_RejectsSpoofedContent(t *testing.T) {
	intake := NewUploadIntake(1024)
	f, _, _ := fileUpload("image/jpeg", []byte("#!/bin/sh\necho pwned\n"))

	if _, err := intake.Read(f); !errors.Is(err, domain.ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType for spoofed content, got %v", err)
	}
}

func TestNewUploadIntake_DefaultCeiling(t *testing.T) {
	if got := NewUploadIntake(0).maxBytes; got != 5<<20 {
		t.Fatalf("expected 5 MiB default, got %d", got)
	}
}
