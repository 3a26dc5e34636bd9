package storage

import (
	"context"
	"sync"

	"dropmarket/internal/core/ports"

	"github.com/google/uuid"
)

// StubPhotoStorage keeps photos in memory. For tests and local development.
type StubPhotoStorage struct {
	mu     sync.Mutex
	photos map[string][]byte
}

// NewStubPhotoStorage creates an empty in-memory photo storage.
func NewStubPhotoStorage() *StubPhotoStorage {
	return &StubPhotoStorage{photos: make(map[string][]byte)}
}

// Store keeps the photo in memory and returns memory:// URLs.
func (s *StubPhotoStorage) Store(_ context.Context, data []byte, mimeType string) (ports.StoredPhoto, error) {
	name := uuid.NewString() + extensionFor(mimeType)

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.photos[name] = stored
	s.mu.Unlock()

	return ports.StoredPhoto{
		URL:          "memory://proofs/" + name,
		ThumbnailURL: "memory://thumbs/" + name,
	}, nil
}

// Photo returns a stored photo by the file name at the end of its URL.
func (s *StubPhotoStorage) Photo(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.photos[name]
	return data, ok
}
