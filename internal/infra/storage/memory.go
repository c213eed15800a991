package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Memory is an in-process object store. It backs local development when no
// bucket is configured, and handler tests.
type Memory struct {
	mu         sync.Mutex
	publicBase string
	bucket     string
	objects    map[string]object
}

type object struct {
	data        []byte
	contentType string
}

func NewMemory(publicBase, bucket string) *Memory {
	return &Memory{
		publicBase: strings.TrimRight(publicBase, "/"),
		bucket:     bucket,
		objects:    map[string]object{},
	}
}

func (m *Memory) PutObject(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read object %s: %w", key, err)
	}
	m.mu.Lock()
	m.objects[key] = object{data: data, contentType: contentType}
	m.mu.Unlock()
	return m.publicBase + "/" + key, nil
}

func (m *Memory) RemoveURLs(ctx context.Context, urls []string) error {
	keys := uniqueKeys(urls, m.publicBase, m.bucket)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.objects, k)
	}
	return nil
}

func (m *Memory) Has(url string) bool {
	key, ok := ExtractPath(url, m.publicBase, m.bucket)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, found := m.objects[key]
	return found
}

// Object returns a stored object and its content type by key.
func (m *Memory) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return o.data, o.contentType, true
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
