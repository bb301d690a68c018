package store

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is the in-process backend used in tests and when no database or
// remote store is configured. Versions are a simple counter rendered as an
// opaque string.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]memoryDoc
	seq  int
}

type memoryDoc struct {
	payload []byte
	version string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryDoc)}
}

func (m *MemoryStore) Read(_ context.Context, id string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, "", ErrNotFound
	}
	payload := make([]byte, len(doc.payload))
	copy(payload, doc.payload)
	return payload, doc.version, nil
}

func (m *MemoryStore) Write(_ context.Context, id string, payload []byte, expectedToken, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.docs[id]
	if expectedToken == "" {
		if exists {
			return "", ErrConflict
		}
	} else {
		if !exists {
			return "", ErrNotFound
		}
		if doc.version != expectedToken {
			return "", ErrConflict
		}
	}

	m.seq++
	stored := make([]byte, len(payload))
	copy(stored, payload)
	next := memoryDoc{payload: stored, version: "v" + strconv.Itoa(m.seq)}
	m.docs[id] = next
	return next.version, nil
}
