package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewS3StorageRequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), Config{Region: "ap-northeast-1"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPresignGet(t *testing.T) {
	s, err := NewS3Storage(context.Background(), Config{
		Endpoint:        "http://localhost:9000",
		Region:          "ap-northeast-1",
		Bucket:          "resumes-bucket",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		PresignTTL:      2 * time.Minute,
	})
	require.NoError(t, err)

	url, err := s.PresignGet(context.Background(), ResumePDFKey("r-1"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/resumes-bucket/resumes/r-1.pdf?"), url)
	assert.Contains(t, url, "X-Amz-Expires=120")
	assert.Contains(t, url, "X-Amz-Signature=")
}
