package ports

import (
	"context"
	"io"

	"github.com/fitexperts/experts-api/internal/core/domain"
)

// AssetStore is the remote object store holding uploaded binaries.
type AssetStore interface {
	// Upload stores the asset under folder. Any failure is domain.ErrUploadFailed;
	// callers must not assume a partial write happened.
	Upload(ctx context.Context, asset *domain.UploadedAsset, folder string) (*domain.StoredObject, error)
	// Delete removes a stored object. Callers treat failures as non-fatal.
	Delete(ctx context.Context, objectID string) error
	// ObjectIDFromURL extracts the object id from a secure URL previously
	// returned by Upload. ok is false for any unrecognized shape.
	ObjectIDFromURL(url string) (objectID string, ok bool)
}

// OrphanRecorder remembers objects whose delete failed so they can be purged later.
type OrphanRecorder interface {
	Record(ctx context.Context, objectID string) error
}

// FileUpload is a client-submitted file as declared by the multipart part headers.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}
