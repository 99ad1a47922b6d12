package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements KeyStore entirely in process memory. It has no
// persistence across restarts; it exists so bsotsd can run and be tested
// without the rocksdb build tag, and as the default store for short-lived
// aggregation sessions that don't need a backing database.
type MemoryStore struct {
	mu sync.RWMutex

	keys      map[string][]byte
	sigs      map[string][]byte
	manifests map[string][]byte
	used      map[string]bool

	closed bool
	stats  KeyStoreStats
}

// NewMemoryStore creates a new in-memory key store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:      make(map[string][]byte),
		sigs:      make(map[string][]byte),
		manifests: make(map[string][]byte),
		used:      make(map[string]bool),
	}
}

func (s *MemoryStore) storeBlob(m map[string][]byte, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	id, err := generateCID(data)
	if err != nil {
		return "", ErrDatabase("cid_generation", err)
	}

	if _, exists := m[id]; !exists {
		cp := make([]byte, len(data))
		copy(cp, data)
		m[id] = cp
	}

	s.stats.LastActivity = time.Now()
	return id, nil
}

func (s *MemoryStore) getBlob(m map[string][]byte, cidStr string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	data, ok := m[cidStr]
	if !ok {
		return nil, ErrNotFoundCID(cidStr)
	}

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// StorePublicKey implements KeyStore.StorePublicKey
func (s *MemoryStore) StorePublicKey(ctx context.Context, pkBytes []byte) (string, error) {
	id, err := s.storeBlob(s.keys, pkBytes)
	if err == nil {
		s.mu.Lock()
		s.stats.PublicKeysStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetPublicKey implements KeyStore.GetPublicKey
func (s *MemoryStore) GetPublicKey(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(s.keys, cidStr)
}

// StoreSignature implements KeyStore.StoreSignature
func (s *MemoryStore) StoreSignature(ctx context.Context, sigBytes []byte) (string, error) {
	id, err := s.storeBlob(s.sigs, sigBytes)
	if err == nil {
		s.mu.Lock()
		s.stats.SignaturesStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetSignature implements KeyStore.GetSignature
func (s *MemoryStore) GetSignature(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(s.sigs, cidStr)
}

// StoreBatchManifest implements KeyStore.StoreBatchManifest
func (s *MemoryStore) StoreBatchManifest(ctx context.Context, manifestJSON []byte) (string, error) {
	id, err := s.storeBlob(s.manifests, manifestJSON)
	if err == nil {
		s.mu.Lock()
		s.stats.ManifestsStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetBatchManifest implements KeyStore.GetBatchManifest
func (s *MemoryStore) GetBatchManifest(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(s.manifests, cidStr)
}

// MarkKeyUsed implements KeyStore.MarkKeyUsed
func (s *MemoryStore) MarkKeyUsed(ctx context.Context, pkCID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if s.used[pkCID] {
		return ErrExistsCID(pkCID)
	}

	s.used[pkCID] = true
	s.stats.KeysMarkedUsed++
	s.stats.LastActivity = time.Now()
	return nil
}

// IsKeyUsed implements KeyStore.IsKeyUsed
func (s *MemoryStore) IsKeyUsed(ctx context.Context, pkCID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}

	return s.used[pkCID], nil
}

// Stats implements KeyStore.Stats
func (s *MemoryStore) Stats() KeyStoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Close implements KeyStore.Close
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ KeyStore = (*MemoryStore)(nil)
