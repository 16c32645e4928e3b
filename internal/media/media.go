// Package media persists uploaded audio and artwork after they leave the
// temporary store, and resolves the public URL clients use to fetch them.
package media

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store persists a local file under key and returns its public URL.
type Store interface {
	Put(ctx context.Context, key, srcPath, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	// Key maps a URL returned by Put back to its key; false for foreign URLs.
	Key(url string) (string, bool)
}

// NewKey builds a unique object key inside folder, keeping the extension of
// the original file name.
func NewKey(folder, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(folder, uuid.NewString()+ext)
}

// KeyFromURL recovers the object key from a URL previously returned by Put.
func KeyFromURL(baseURL, url string) (string, bool) {
	prefix := strings.TrimSuffix(baseURL, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
