package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
)

// MemoryStore is an in-memory ObjectStore variant used for deterministic
// tests and local runs without live network dependencies. Writes are
// upserts keyed by (bucket, key), mirroring S3 semantics.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
	}
}

func (m *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[objectID(bucket, key)]
	if !ok {
		return nil, model.Permanent(model.ErrKindSourceNotFound,
			fmt.Errorf("object %s/%s does not exist", bucket, key))
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectID(bucket, key)] = stored
	return nil
}

// Object returns the stored bytes for (bucket, key), if any
func (m *MemoryStore) Object(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[objectID(bucket, key)]
	return data, ok
}

// Len returns the number of stored objects across all buckets
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

func objectID(bucket, key string) string {
	return bucket + "/" + key
}
