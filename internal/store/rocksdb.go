// +build rocksdb

package store

import (
	"context"
	"sync"
	"time"

	"github.com/linxGnu/grocksdb"
)

// RocksDBStore implements KeyStore using RocksDB.
type RocksDBStore struct {
	config *Config
	db     *grocksdb.DB
	opts   *grocksdb.Options

	cfs map[string]*grocksdb.ColumnFamilyHandle

	readOpts  *grocksdb.ReadOptions
	writeOpts *grocksdb.WriteOptions

	mu     sync.RWMutex
	closed bool

	stats KeyStoreStats
}

// Column family names
const (
	CFKeys       = "keys"
	CFSignatures = "signatures"
	CFManifests  = "manifests"
	CFUsedKeys   = "used_keys"
)

// Key prefixes within each column family
const (
	PrefixKey       = "pk:"
	PrefixSignature = "sig:"
	PrefixManifest  = "bm:"
	PrefixUsed      = "used:"
)

// NewRocksDBStore creates a new RocksDB-backed key store.
func NewRocksDBStore(config *Config) (*RocksDBStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store := &RocksDBStore{
		config: config,
		cfs:    make(map[string]*grocksdb.ColumnFamilyHandle),
	}

	if err := store.open(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *RocksDBStore) open() error {
	s.opts = grocksdb.NewDefaultOptions()
	s.opts.SetCreateIfMissing(true)
	s.opts.SetCreateIfMissingColumnFamilies(true)

	s.applyConfig()

	cfNames := []string{CFKeys, CFSignatures, CFManifests, CFUsedKeys}
	cfOpts := make([]*grocksdb.Options, len(cfNames))

	for i, name := range cfNames {
		cfOpts[i] = grocksdb.NewDefaultOptions()
		if cfConfig, exists := s.config.RocksDB.ColumnFamilies[name]; exists {
			s.applyCFConfig(cfOpts[i], cfConfig)
		}
	}

	db, cfHandles, err := grocksdb.OpenDbColumnFamilies(s.opts, s.config.RocksDB.Path, cfNames, cfOpts)
	if err != nil {
		return ErrDatabase("open", err)
	}

	s.db = db

	for i, name := range cfNames {
		s.cfs[name] = cfHandles[i]
	}

	s.readOpts = grocksdb.NewDefaultReadOptions()
	s.writeOpts = grocksdb.NewDefaultWriteOptions()
	s.writeOpts.SetSync(s.config.RocksDB.SyncWrites)

	return nil
}

func (s *RocksDBStore) applyConfig() {
	cfg := &s.config.RocksDB

	s.opts.SetMaxOpenFiles(cfg.MaxOpenFiles)
	s.opts.SetWriteBufferSize(cfg.WriteBufferSize * 1024 * 1024)
	s.opts.SetMaxWriteBufferNumber(cfg.MaxWriteBufferNumber)
	s.opts.SetMaxBackgroundJobs(cfg.MaxBackgroundJobs)
	s.opts.SetMaxBytesForLevelBase(uint64(cfg.MaxBytesForLevelBase))

	blockCache := grocksdb.NewLRUCache(uint64(cfg.BlockCacheSize) * 1024 * 1024)
	blockOpts := grocksdb.NewDefaultBlockBasedTableOptions()
	blockOpts.SetBlockCache(blockCache)
	s.opts.SetBlockBasedTableFactory(blockOpts)

	switch cfg.CompressionType {
	case "snappy":
		s.opts.SetCompression(grocksdb.SnappyCompression)
	case "lz4":
		s.opts.SetCompression(grocksdb.LZ4Compression)
	case "zstd":
		s.opts.SetCompression(grocksdb.ZSTDCompression)
	default:
		s.opts.SetCompression(grocksdb.NoCompression)
	}

	if !cfg.EnableWAL {
		s.opts.SetDisableWAL(true)
	}
}

func (s *RocksDBStore) applyCFConfig(opts *grocksdb.Options, cfg ColumnFamilyConfig) {
	if cfg.WriteBufferSize > 0 {
		opts.SetWriteBufferSize(cfg.WriteBufferSize * 1024 * 1024)
	}
	if cfg.MaxWriteBufferNumber > 0 {
		opts.SetMaxWriteBufferNumber(cfg.MaxWriteBufferNumber)
	}

	if cfg.BloomFilterBitsPerKey > 0 {
		blockOpts := grocksdb.NewDefaultBlockBasedTableOptions()
		filter := grocksdb.NewBloomFilter(cfg.BloomFilterBitsPerKey)
		blockOpts.SetFilterPolicy(filter)
		opts.SetBlockBasedTableFactory(blockOpts)
	}

	switch cfg.CompressionType {
	case "snappy":
		opts.SetCompression(grocksdb.SnappyCompression)
	case "lz4":
		opts.SetCompression(grocksdb.LZ4Compression)
	case "zstd":
		opts.SetCompression(grocksdb.ZSTDCompression)
	default:
		opts.SetCompression(grocksdb.NoCompression)
	}
}

// storeBlob is the shared put-if-absent path for keys, signatures, and
// manifests: all three are addressed by the SHA-256 CID of their bytes.
func (s *RocksDBStore) storeBlob(cf, prefix string, data []byte) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}

	id, err := generateCID(data)
	if err != nil {
		return "", ErrDatabase("cid_generation", err)
	}

	key := prefix + id
	existing, err := s.db.GetCF(s.readOpts, s.cfs[cf], []byte(key))
	if err != nil {
		return "", ErrDatabaseKey("exists_check", key, err)
	}
	if existing != nil {
		defer existing.Free()
		if existing.Exists() {
			return id, nil
		}
	}

	if err := s.db.PutCF(s.writeOpts, s.cfs[cf], []byte(key), data); err != nil {
		return "", ErrDatabaseKey("put", key, err)
	}

	s.stats.LastActivity = time.Now()
	return id, nil
}

func (s *RocksDBStore) getBlob(cf, prefix, cidStr string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	key := prefix + cidStr
	value, err := s.db.GetCF(s.readOpts, s.cfs[cf], []byte(key))
	if err != nil {
		return nil, ErrDatabaseKey("get", key, err)
	}
	defer value.Free()

	if !value.Exists() {
		return nil, ErrNotFoundCID(cidStr)
	}

	out := make([]byte, len(value.Data()))
	copy(out, value.Data())
	return out, nil
}

// StorePublicKey implements KeyStore.StorePublicKey
func (s *RocksDBStore) StorePublicKey(ctx context.Context, pkBytes []byte) (string, error) {
	id, err := s.storeBlob(CFKeys, PrefixKey, pkBytes)
	if err == nil {
		s.mu.Lock()
		s.stats.PublicKeysStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetPublicKey implements KeyStore.GetPublicKey
func (s *RocksDBStore) GetPublicKey(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(CFKeys, PrefixKey, cidStr)
}

// StoreSignature implements KeyStore.StoreSignature
func (s *RocksDBStore) StoreSignature(ctx context.Context, sigBytes []byte) (string, error) {
	id, err := s.storeBlob(CFSignatures, PrefixSignature, sigBytes)
	if err == nil {
		s.mu.Lock()
		s.stats.SignaturesStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetSignature implements KeyStore.GetSignature
func (s *RocksDBStore) GetSignature(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(CFSignatures, PrefixSignature, cidStr)
}

// StoreBatchManifest implements KeyStore.StoreBatchManifest
func (s *RocksDBStore) StoreBatchManifest(ctx context.Context, manifestJSON []byte) (string, error) {
	id, err := s.storeBlob(CFManifests, PrefixManifest, manifestJSON)
	if err == nil {
		s.mu.Lock()
		s.stats.ManifestsStored++
		s.mu.Unlock()
	}
	return id, err
}

// GetBatchManifest implements KeyStore.GetBatchManifest
func (s *RocksDBStore) GetBatchManifest(ctx context.Context, cidStr string) ([]byte, error) {
	return s.getBlob(CFManifests, PrefixManifest, cidStr)
}

// MarkKeyUsed implements KeyStore.MarkKeyUsed
func (s *RocksDBStore) MarkKeyUsed(ctx context.Context, pkCID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	key := PrefixUsed + pkCID
	existing, err := s.db.GetCF(s.readOpts, s.cfs[CFUsedKeys], []byte(key))
	if err != nil {
		return ErrDatabaseKey("exists_check", key, err)
	}
	if existing != nil {
		defer existing.Free()
		if existing.Exists() {
			return ErrExistsCID(pkCID)
		}
	}

	if err := s.db.PutCF(s.writeOpts, s.cfs[CFUsedKeys], []byte(key), []byte{1}); err != nil {
		return ErrDatabaseKey("put", key, err)
	}

	s.stats.KeysMarkedUsed++
	s.stats.LastActivity = time.Now()
	return nil
}

// IsKeyUsed implements KeyStore.IsKeyUsed
func (s *RocksDBStore) IsKeyUsed(ctx context.Context, pkCID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, ErrClosed
	}

	key := PrefixUsed + pkCID
	value, err := s.db.GetCF(s.readOpts, s.cfs[CFUsedKeys], []byte(key))
	if err != nil {
		return false, ErrDatabaseKey("has", key, err)
	}
	defer value.Free()

	return value.Exists(), nil
}

// Stats implements KeyStore.Stats
func (s *RocksDBStore) Stats() KeyStoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Close closes the RocksDB store.
func (s *RocksDBStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	for _, cf := range s.cfs {
		cf.Destroy()
	}

	if s.readOpts != nil {
		s.readOpts.Destroy()
	}
	if s.writeOpts != nil {
		s.writeOpts.Destroy()
	}
	if s.opts != nil {
		s.opts.Destroy()
	}

	if s.db != nil {
		s.db.Close()
	}

	s.closed = true
	return nil
}
