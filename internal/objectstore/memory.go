package objectstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps objects in process memory. It backs local development
// (OBJECT_STORE_PROVIDER=memory) and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Get(_ context.Context, bucket, key string) (Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[bucket+"/"+key]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s/%s", ErrNotFound, bucket, key)
	}
	return clone(obj), nil
}

func (m *MemoryStore) Put(_ context.Context, bucket, key string, obj Object) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = clone(obj)
	return nil
}

// Keys lists the keys stored in bucket, sorted.
func (m *MemoryStore) Keys(bucket string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for k := range m.objects {
		if rest, ok := strings.CutPrefix(k, bucket+"/"); ok {
			keys = append(keys, rest)
		}
	}
	sort.Strings(keys)
	return keys
}

func clone(obj Object) Object {
	return Object{
		Body:        append([]byte(nil), obj.Body...),
		ContentType: obj.ContentType,
		Metadata:    maps.Clone(obj.Metadata),
	}
}
