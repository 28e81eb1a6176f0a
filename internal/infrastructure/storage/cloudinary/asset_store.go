package cloudinary

import (
	"bytes"
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/pkg/metrics"
)

const (
	defaultUploadTimeout = 30 * time.Second

	// Caps stored images at 500x500 while keeping aspect ratio.
	photoTransformation = "c_limit,w_500,h_500"
)

var versionSegment = regexp.MustCompile(`^v\d+$`)

// Uploader is the subset of the Cloudinary upload API the store needs.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

type Credentials struct {
	CloudName string
	APIKey    string
	APISecret string
}

// AssetStore keeps uploaded images in Cloudinary.
type AssetStore struct {
	api     Uploader
	timeout time.Duration
	log     zerolog.Logger
}

// NewAssetStore builds a store backed by the Cloudinary SDK.
func NewAssetStore(creds Credentials, timeout time.Duration, log zerolog.Logger) (*AssetStore, error) {
	if creds.CloudName == "" || creds.APIKey == "" || creds.APISecret == "" {
		return nil, domain.ErrMissingCredentials
	}
	client, err := cld.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "cloudinary client")
	}
	return NewAssetStoreWithUploader(&client.Upload, timeout, log), nil
}

// NewAssetStoreWithUploader wires a store around an existing upload API.
func NewAssetStoreWithUploader(api Uploader, timeout time.Duration, log zerolog.Logger) *AssetStore {
	if timeout <= 0 {
		timeout = defaultUploadTimeout
	}
	return &AssetStore{api: api, timeout: timeout, log: log}
}

func (s *AssetStore) Upload(ctx context.Context, asset *domain.UploadedAsset, folder string) (*domain.StoredObject, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := s.api.Upload(ctx, bytes.NewReader(asset.Data), uploader.UploadParams{
		Folder:         folder,
		Transformation: photoTransformation,
	})
	metrics.AssetUploadDuration.Observe(time.Since(start).Seconds())

	if err == nil && res != nil && res.Error.Message != "" {
		err = errors.New(res.Error.Message)
	}
	if err == nil && (res == nil || res.PublicID == "" || res.SecureURL == "") {
		err = errors.New("empty upload result")
	}
	if err != nil {
		metrics.AssetUploadsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("folder", folder).Int64("size", asset.Size).Msg("cloudinary upload failed")
		return nil, errors.Wrap(domain.ErrUploadFailed, err.Error())
	}

	metrics.AssetUploadsTotal.WithLabelValues("ok").Inc()
	return &domain.StoredObject{ObjectID: res.PublicID, SecureURL: res.SecureURL}, nil
}

// Delete removes an object. Deleting an object that is already gone succeeds.
func (s *AssetStore) Delete(ctx context.Context, objectID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: objectID})
	if err == nil && res != nil && res.Error.Message != "" {
		err = errors.New(res.Error.Message)
	}
	if err == nil && res != nil && res.Result != "ok" && res.Result != "not found" {
		err = errors.Errorf("unexpected destroy result %q", res.Result)
	}
	metrics.AssetDeletesTotal.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		return errors.Wrapf(err, "delete %s", objectID)
	}
	return nil
}

func (s *AssetStore) ObjectIDFromURL(rawURL string) (string, bool) {
	return ObjectIDFromURL(rawURL)
}

// ObjectIDFromURL recovers the public id from a Cloudinary delivery URL:
// everything after the version segment, or after "upload" when the URL is
// unversioned, without the file extension.
func ObjectIDFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	uploadAt := -1
	for i, seg := range segments {
		if seg == "upload" {
			uploadAt = i
			break
		}
	}
	if uploadAt < 0 {
		return "", false
	}

	rest := segments[uploadAt+1:]
	for i, seg := range rest {
		if versionSegment.MatchString(seg) {
			rest = rest[i+1:]
			break
		}
	}
	if len(rest) == 0 {
		return "", false
	}

	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	id := strings.Join(rest, "/")
	if id == "" || strings.HasSuffix(id, "/") {
		return "", false
	}
	return id, true
}
