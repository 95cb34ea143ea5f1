// server/internal/s3/fetcher.go
package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"carbon-travel-api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const uriScheme = "s3://"

// ObjectGetter is the part of the S3 client the fetcher uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher downloads dataset files from a bucket.
type Fetcher struct {
	Client ObjectGetter
	Bucket string
}

// NewFetcher builds an S3 client from cfg. Static keys are used when both are
// set, otherwise the default AWS credential chain applies.
func NewFetcher(ctx context.Context, cfg config.S3Config) (*Fetcher, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Fetcher{Client: s3.NewFromConfig(sdkConfig), Bucket: cfg.Bucket}, nil
}

// IsURI reports whether path names an S3 object.
func IsURI(path string) bool {
	return strings.HasPrefix(path, uriScheme)
}

// ParseURI splits s3://bucket/key. An empty bucket means the configured one.
func ParseURI(uri string) (bucket, key string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, uriScheme)
	bucket, key, _ = strings.Cut(rest, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 uri %q has no object key", uri)
	}
	return bucket, key, nil
}

// Open returns the body of the object named by uri. The caller closes it.
func (f *Fetcher) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	if bucket == "" {
		bucket = f.Bucket
	}
	out, err := f.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
