package media

import (
	"context"
	"strings"

	"github.com/minio/minio-go/v7"
)

// MinioStore uploads objects into a bucket. publicURL is the externally
// reachable base, typically "<endpoint>/<bucket>" or a CDN in front of it.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(client *minio.Client, bucket, publicURL string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func (s *MinioStore) Put(ctx context.Context, key, srcPath, contentType string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucket, key, srcPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s.publicURL + "/" + key, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) Key(url string) (string, bool) {
	return KeyFromURL(s.publicURL, url)
}
