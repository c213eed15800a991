package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPath(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{"public base", "https://cdn.example.com/projects/1-a.jpg", "projects/1-a.jpg", true},
		{"legacy marker", "https://xyz.supabase.co/storage/v1/object/public/projects/projects/2-b.png", "projects/2-b.png", true},
		{"foreign url", "https://elsewhere.example.org/image.jpg", "", false},
		{"blank", "  ", "", false},
		{"base only", "https://cdn.example.com/", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractPath(tc.url, "https://cdn.example.com", "projects")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUniqueKeysDropsDuplicates(t *testing.T) {
	keys := uniqueKeys([]string{
		"https://cdn.example.com/projects/a.jpg",
		"https://cdn.example.com/projects/a.jpg",
		"",
		"https://other.example.com/x.jpg",
		"https://cdn.example.com/projects/b.jpg",
	}, "https://cdn.example.com", "projects")
	assert.Equal(t, []string{"projects/a.jpg", "projects/b.jpg"}, keys)
}

func TestMemoryPutAndRemove(t *testing.T) {
	m := NewMemory("https://cdn.example.com/", "projects")
	ctx := context.Background()

	url, err := m.PutObject(ctx, "projects/1-x.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/projects/1-x.jpg", url)
	assert.True(t, m.Has(url))

	require.NoError(t, m.RemoveURLs(ctx, []string{url, url}))
	assert.False(t, m.Has(url))
	assert.Equal(t, 0, m.Len())
}

func TestNewS3RequiresCredentials(t *testing.T) {
	_, err := NewS3(S3Options{Bucket: "projects", Region: "eu-west-3"})
	assert.Error(t, err)

	s, err := NewS3(S3Options{
		Bucket:          "projects",
		Region:          "eu-west-3",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://projects.s3.eu-west-3.amazonaws.com", s.publicBase)

	s, err = NewS3(S3Options{
		Bucket:          "projects",
		Region:          "auto",
		Endpoint:        "https://minio.local:9000/",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000/projects", s.publicBase)
}
