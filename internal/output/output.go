// Package output writes generated documents to a local file or an S3
// object. Writes are all-or-nothing: a reader never observes a partially
// written document.
package output

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the destination holds no document yet.
var ErrNotFound = errors.New("output does not exist")

// Destination stores one document.
type Destination interface {
	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
	// Read returns the stored document, or an error wrapping ErrNotFound.
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// Open selects the destination for target: s3://bucket/key URLs go to
// S3, anything else is a local path.
func Open(ctx context.Context, target string) (Destination, error) {
	if strings.HasPrefix(target, "s3://") {
		bucket, key, err := ParseS3URL(target)
		if err != nil {
			return nil, err
		}
		return NewS3(ctx, bucket, key)
	}
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("output path is empty")
	}
	return NewFile(target), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(u string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(u, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 url: %q", u)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("s3 url %q must name a bucket and an object key", u)
	}
	return bucket, key, nil
}
