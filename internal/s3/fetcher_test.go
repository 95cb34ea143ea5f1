package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	bucket, key string
	body        string
	err         error
}

func (f *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.bucket, f.key = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://data/factors/2024.json", "data", "factors/2024.json", false},
		{"s3:///factors.json", "", "factors.json", false},
		{"s3://data", "", "", true},
		{"./factors.json", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, key, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestFetcherOpen(t *testing.T) {
	getter := &fakeGetter{body: "[]"}
	f := &Fetcher{Client: getter, Bucket: "default-bucket"}

	rc, err := f.Open(context.Background(), "s3:///factors.json")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "default-bucket", getter.bucket)
	assert.Equal(t, "factors.json", getter.key)

	getter.err = errors.New("denied")
	_, err = f.Open(context.Background(), "s3://other/x.json")
	assert.ErrorContains(t, err, "s3://other/x.json")
}
