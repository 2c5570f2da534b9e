// Package attachments stores the image bytes behind an order's
// attachment refs. The aggregate only ever keeps the ref string; the
// bytes live here.
package attachments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	// MaxBlobSize caps one stored image.
	MaxBlobSize = 5 * 1024 * 1024 // 5MB
)

// ErrBlobNotFound is returned when a ref does not resolve to stored bytes.
var ErrBlobNotFound = errors.New("attachment blob not found")

// ErrBlobTooLarge is returned when an image exceeds MaxBlobSize.
var ErrBlobTooLarge = errors.New("attachment blob too large")

// Store holds attachment image bytes keyed by order and attachment id.
type Store interface {
	// Put stores the bytes and returns the ref to record on the order.
	Put(ctx context.Context, orderID, attachmentID uuid.UUID, data []byte) (string, error)

	// Get retrieves the bytes behind a ref.
	Get(ctx context.Context, ref string) ([]byte, error)

	// Delete removes the bytes behind a ref.
	Delete(ctx context.Context, ref string) error

	// DeleteOrder removes every blob stored for one order.
	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}

// BlobRef builds the storage key for one attachment.
func BlobRef(orderID, attachmentID uuid.UUID) string {
	return fmt.Sprintf("seaops:order:%s:attachment:%s", orderID, attachmentID)
}

func orderPrefix(orderID uuid.UUID) string {
	return fmt.Sprintf("seaops:order:%s:attachment:", orderID)
}

// IsBlobRef reports whether a ref points into this store rather than
// at an external URL the order merely recorded.
func IsBlobRef(ref string) bool {
	return strings.HasPrefix(ref, "seaops:order:")
}

// InMemoryStore is a map-backed Store for local mode and tests.
type InMemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{blobs: make(map[string][]byte)}
}

func (s *InMemoryStore) Put(_ context.Context, orderID, attachmentID uuid.UUID, data []byte) (string, error) {
	if len(data) > MaxBlobSize {
		return "", ErrBlobTooLarge
	}

	ref := BlobRef(orderID, attachmentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

func (s *InMemoryStore) Get(_ context.Context, ref string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[ref]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *InMemoryStore) Delete(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[ref]; !ok {
		return ErrBlobNotFound
	}
	delete(s.blobs, ref)
	return nil
}

func (s *InMemoryStore) DeleteOrder(_ context.Context, orderID uuid.UUID) error {
	prefix := orderPrefix(orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	for ref := range s.blobs {
		if len(ref) >= len(prefix) && ref[:len(prefix)] == prefix {
			delete(s.blobs, ref)
		}
	}
	return nil
}
