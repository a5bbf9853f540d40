package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store stores product images in an S3-compatible bucket. Public URLs are
// derived by string convention from the endpoint, bucket and key, so the
// store can also recover an object key from a URL it previously handed out.
type S3Store struct {
	client   *s3.Client
	bucket   string
	prefix   string
	endpoint string
}

func NewS3Store(client *s3.Client, bucket, prefix, endpoint string) *S3Store {
	return &S3Store{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		endpoint: endpoint,
	}
}

// Upload writes the object under prefix+name and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := s.prefix + name
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.publicURL(key), nil
}

// Remove deletes the object a previously returned public URL points at.
func (s *S3Store) Remove(ctx context.Context, publicURL string) error {
	key := s.keyFromURL(publicURL)
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) publicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func (s *S3Store) keyFromURL(publicURL string) string {
	base := s.publicURL("")
	return strings.TrimPrefix(publicURL, base)
}
