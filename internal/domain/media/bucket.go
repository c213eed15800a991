package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

// ObjectStore is implemented by the S3 and in-memory stores.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	RemoveURLs(ctx context.Context, urls []string) error
}

// Bucket adapts an ObjectStore to the Uploader and Remover a Draft commits
// through. Keys look like projects/<unix ms>-<random>.<ext>.
type Bucket struct {
	Store  ObjectStore
	Prefix string
	now    func() time.Time
}

func NewBucket(store ObjectStore) *Bucket {
	return &Bucket{Store: store, Prefix: "projects", now: time.Now}
}

func (b *Bucket) Key(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "" {
		ext = "bin"
	}
	now := time.Now
	if b.now != nil {
		now = b.now
	}
	suffix := strings.TrimLeft(fmt.Sprintf("%x", rand.Uint64()), "0")
	if len(suffix) > 10 {
		suffix = suffix[:10]
	}
	return fmt.Sprintf("%s/%d-%s.%s", b.Prefix, now().UnixMilli(), suffix, ext)
}

func (b *Bucket) Upload(ctx context.Context, f File) (string, error) {
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	url, err := b.Store.PutObject(ctx, b.Key(f.Name), contentType, bytes.NewReader(f.Data), f.Size())
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	return url, nil
}

func (b *Bucket) Remove(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	return b.Store.RemoveURLs(ctx, urls)
}
