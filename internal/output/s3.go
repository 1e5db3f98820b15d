package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ContentType of uploaded documents.
const ContentType = "application/xml"

// S3API is the subset of the S3 client used here.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 is a document stored as one object. A single PutObject replaces the
// object atomically.
type S3 struct {
	client S3API
	bucket string
	key    string
}

// NewS3 builds a destination using the default AWS credential chain.
func NewS3(ctx context.Context, bucket, key string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewS3WithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3WithClient builds a destination over an existing client.
func NewS3WithClient(client S3API, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

func (d *S3) String() string { return "s3://" + d.bucket + "/" + d.key }

// Write uploads the document.
func (d *S3) Write(ctx context.Context, data []byte) error {
	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(d.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", d, err)
	}
	return nil
}

// Read downloads the current document.
func (d *S3) Read(ctx context.Context) ([]byte, error) {
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(d.key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%s: %w", d, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to download %s: %w", d, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d, err)
	}
	return data, nil
}
