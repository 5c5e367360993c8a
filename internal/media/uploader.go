package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrEmptyContent is returned when an upload carries no bytes.
	ErrEmptyContent = errors.New("media: content is empty")
	// ErrInvalidFileName is returned when the file name cannot produce a safe object key.
	ErrInvalidFileName = errors.New("media: invalid file name")
)

// Asset describes a stored media object. PublicID is the stable identifier
// used for later deletion; URL is what clients embed.
type Asset struct {
	URL      string
	PublicID string
}

// UploadRequest carries one media object to store.
type UploadRequest struct {
	FileName    string
	ContentType string
	Folder      string
	Content     []byte
}

// Uploader stores media objects and removes them by public id.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (Asset, error)
	Delete(ctx context.Context, publicID string) error
}

// BuildObjectKey composes the storage object key for an upload. The unique
// segment keeps concurrent uploads of identically named files apart.
func BuildObjectKey(folder, unique, fileName string) (string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	if ext == "" || strings.ContainsAny(ext, "/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "uploads"
	}
	unique = strings.TrimSpace(unique)
	if unique == "" {
		return "", errors.New("media: unique segment is required")
	}
	return fmt.Sprintf("%s/%s%s", folder, unique, ext), nil
}
