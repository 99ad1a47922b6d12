// +build !rocksdb

package store

import (
	"context"
	"fmt"
)

// RocksDBStore stub implementation when RocksDB is disabled at build time.
// Use MemoryStore for a functional in-process store, or build with the
// rocksdb tag for persistence.
type RocksDBStore struct {
	closed bool
}

// Column family names, kept in step with rocksdb.go so DefaultConfig
// builds with or without the rocksdb tag.
const (
	CFKeys       = "keys"
	CFSignatures = "signatures"
	CFManifests  = "manifests"
	CFUsedKeys   = "used_keys"
)

func NewRocksDBStore(config *Config) (*RocksDBStore, error) {
	return nil, fmt.Errorf("RocksDB support not compiled in - use build tag 'rocksdb' to enable")
}

func (s *RocksDBStore) StorePublicKey(ctx context.Context, pkBytes []byte) (string, error) {
	return "", fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) GetPublicKey(ctx context.Context, cidStr string) ([]byte, error) {
	return nil, fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) StoreSignature(ctx context.Context, sigBytes []byte) (string, error) {
	return "", fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) GetSignature(ctx context.Context, cidStr string) ([]byte, error) {
	return nil, fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) StoreBatchManifest(ctx context.Context, manifestJSON []byte) (string, error) {
	return "", fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) GetBatchManifest(ctx context.Context, cidStr string) ([]byte, error) {
	return nil, fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) MarkKeyUsed(ctx context.Context, pkCID string) error {
	return fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) IsKeyUsed(ctx context.Context, pkCID string) (bool, error) {
	return false, fmt.Errorf("RocksDB not available")
}

func (s *RocksDBStore) Stats() KeyStoreStats {
	return KeyStoreStats{}
}

func (s *RocksDBStore) Close() error {
	return nil
}
