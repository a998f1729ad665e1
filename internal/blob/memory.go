package blob

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory blob store for tests and local development.

type MemoryStore struct {
	mu    sync.Mutex
	blobs map[Ref]Blob

	// FailPuts simulates a storage fault so tests can assert that a blob
	// failure prevents the transition from being recorded.
	FailPuts error
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{blobs: make(map[Ref]Blob)} }

func (s *MemoryStore) Put(ctx context.Context, data []byte, contentType string) (Ref, error) {
	if err := validate(data, contentType); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPuts != nil {
		return "", s.FailPuts
	}
	ref := Ref(uuid.NewString())
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[ref] = Blob{Data: cp, ContentType: contentType}
	return ref, nil
}

func (s *MemoryStore) Get(ctx context.Context, ref Ref) (Blob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[ref]
	if !ok {
		return Blob{}, ErrNotFound
	}
	return b, nil
}
