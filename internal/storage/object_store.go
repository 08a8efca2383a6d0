// Package storage holds the object store backends that keep product image
// binaries. Both backends speak the S3 API, so MinIO, Backblaze B2 and AWS
// all work by switching configuration.
package storage

import (
	"context"
	"net/url"
	"strings"
)

// ObjectStore is the bucket-scoped object store used for product images.
type ObjectStore interface {
	// Upload stores body under key with the given content type.
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// List returns every key under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
	// URL returns the browser-accessible URL for key.
	URL(key string) string
	Ping(ctx context.Context) error
}

// Key builds the object key for fileName under prefix, e.g. "fotosProdutos/cat.png".
func Key(prefix, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fileName
	}
	return prefix + "/" + fileName
}

// FileName is the inverse of Key.
func FileName(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, prefix+"/")
}

// publicURL joins base and key, escaping each key segment.
func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
