// Package objectstore serves batch instances from an S3 compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kilianp07/busytime/core/source"
)

// NewMinIOClient builds a MinIO client from the source configuration.
func NewMinIOClient(cfg source.Config) (*minio.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	}
	return minio.New(cfg.Endpoint, opts)
}

// MinioSource implements source.Source on top of a bucket. Instance names
// are resolved under the configured key prefix.
type MinioSource struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioSource connects to the bucket described by cfg. The bucket is
// created when CreateBucket is set, otherwise it must already exist.
func NewMinioSource(ctx context.Context, cfg source.Config) (*MinioSource, error) {
	client, err := NewMinIOClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureBucket(ctx, client, cfg); err != nil {
		return nil, err
	}
	return NewMinioSourceWithClient(client, cfg.Bucket, cfg.Prefix)
}

// NewMinioSourceWithClient wraps an existing client.
func NewMinioSourceWithClient(client *minio.Client, bucket, prefix string) (*MinioSource, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &MinioSource{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// Key returns the object key of an instance name.
func (s *MinioSource) Key(name string) string {
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Open implements source.Source.
func (s *MinioSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := s.Key(name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: s3://%s/%s", source.ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("stat %s: %w", key, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return obj, nil
}

// Write implements source.Source.
func (s *MinioSource) Write(ctx context.Context, name string, data []byte) error {
	key := s.Key(name)
	opts := minio.PutObjectOptions{ContentType: "text/plain"}
	if _, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Location implements source.Source.
func (s *MinioSource) Location() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}

func ensureBucket(ctx context.Context, client *minio.Client, cfg source.Config) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists: %w", err)
	}
	if exists {
		return nil
	}
	if !cfg.CreateBucket {
		return fmt.Errorf("bucket missing: %s", cfg.Bucket)
	}
	return client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region})
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
