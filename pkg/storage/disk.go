// Package storage stores uploaded artwork images on a local directory or an
// S3-compatible bucket.
//
//	disk, err := storage.FromConfig(ctx)
//	err = disk.Put(ctx, "artworks/3/12-<uuid>.png", file, "image/png")
//	url := disk.URL("artworks/3/12-<uuid>.png")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shashiranjanraj/shashikala/config"
)

// ErrNotFound is returned when no object exists at a path.
var ErrNotFound = errors.New("storage: not found")

// Disk is implemented by every storage driver.
type Disk interface {
	// Put writes r to path, replacing any existing object.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Open returns a reader for path. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. A missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// PathOf maps a URL produced by URL back to its path.
	PathOf(url string) (string, bool)
}

// FromConfig builds the disk named by STORAGE_DISK.
func FromConfig(ctx context.Context) (Disk, error) {
	switch name := config.StorageDefault(); name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL())
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			URL:      config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
}

// Get reads the whole object at path.
func Get(ctx context.Context, d Disk, path string) ([]byte, error) {
	rc, err := d.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

func trimURL(base, url string) (string, bool) {
	prefix := strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	p := strings.TrimPrefix(url, prefix)
	return p, p != ""
}
