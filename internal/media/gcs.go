package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCSUploaderConfig configures the GCS-backed uploader.
type GCSUploaderConfig struct {
	Client *storage.Client
	Bucket string
	// NewID overrides the unique object segment generator, useful for tests.
	NewID func() string
}

// GCSUploader stores media objects in a Google Cloud Storage bucket. The
// object key doubles as the public id.
type GCSUploader struct {
	client *storage.Client
	bucket string
	newID  func() string
}

// NewGCSUploader constructs a GCS-backed uploader.
func NewGCSUploader(cfg GCSUploaderConfig) (*GCSUploader, error) {
	if cfg.Client == nil {
		return nil, errors.New("media: storage client is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("media: bucket name is required")
	}
	newID := cfg.NewID
	if newID == nil {
		newID = func() string { return uuid.NewString() }
	}
	return &GCSUploader{client: cfg.Client, bucket: bucket, newID: newID}, nil
}

// Upload writes the object and returns its public URL and id.
func (u *GCSUploader) Upload(ctx context.Context, req UploadRequest) (Asset, error) {
	if len(req.Content) == 0 {
		return Asset{}, ErrEmptyContent
	}
	key, err := BuildObjectKey(req.Folder, u.newID(), req.FileName)
	if err != nil {
		return Asset{}, err
	}

	w := u.client.Bucket(u.bucket).Object(key).NewWriter(ctx)
	if req.ContentType != "" {
		w.ContentType = req.ContentType
	}
	if _, err := w.Write(req.Content); err != nil {
		_ = w.Close()
		return Asset{}, fmt.Errorf("media: write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Asset{}, fmt.Errorf("media: finalize object %q: %w", key, err)
	}

	return Asset{
		URL:      PublicURL(u.bucket, key),
		PublicID: key,
	}, nil
}

// Delete removes a previously uploaded object. A missing object is not an
// error so retried deletions stay idempotent.
func (u *GCSUploader) Delete(ctx context.Context, publicID string) error {
	key := strings.TrimSpace(publicID)
	if key == "" {
		return errors.New("media: public id is required")
	}
	err := u.client.Bucket(u.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("media: delete object %q: %w", key, err)
	}
	return nil
}

// PublicURL renders the canonical public address of a bucket object.
func PublicURL(bucket, key string) string {
	escaped := make([]string, 0, 4)
	for _, segment := range strings.Split(key, "/") {
		escaped = append(escaped, url.PathEscape(segment))
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, strings.Join(escaped, "/"))
}
