package store

// Config holds configuration for the storage layer.
type Config struct {
	RocksDB RocksDBConfig `json:"rocksdb"`
}

// RocksDBConfig configures RocksDB settings.
type RocksDBConfig struct {
	Path string `json:"path"`

	// Performance tuning
	MaxOpenFiles         int  `json:"max_open_files"`
	WriteBufferSize      int  `json:"write_buffer_size"` // MB
	MaxWriteBufferNumber int  `json:"max_write_buffer_number"`
	BlockCacheSize       int  `json:"block_cache_size"` // MB
	EnableWAL            bool `json:"enable_wal"`
	SyncWrites           bool `json:"sync_writes"`

	// Compression
	CompressionType string `json:"compression_type"` // none, snappy, lz4, zstd

	// Compaction tuning
	MaxBackgroundJobs    int   `json:"max_background_jobs"`
	MaxBytesForLevelBase int64 `json:"max_bytes_for_level_base"` // Bytes

	// Column Family configs
	ColumnFamilies map[string]ColumnFamilyConfig `json:"column_families"`
}

// ColumnFamilyConfig holds per-CF configuration.
type ColumnFamilyConfig struct {
	WriteBufferSize       int    `json:"write_buffer_size"`
	MaxWriteBufferNumber  int    `json:"max_write_buffer_number"`
	CompressionType       string `json:"compression_type"`
	BloomFilterBitsPerKey int    `json:"bloom_filter_bits_per_key"`
}

// DefaultConfig returns sensible defaults for storage configuration.
func DefaultConfig() *Config {
	return &Config{
		RocksDB: RocksDBConfig{
			Path:                 "./data/bsotsd",
			MaxOpenFiles:         1000,
			WriteBufferSize:      64, // MB
			MaxWriteBufferNumber: 3,
			BlockCacheSize:       128, // MB
			EnableWAL:            true,
			SyncWrites:           false,
			CompressionType:      "lz4",
			MaxBackgroundJobs:    4,
			MaxBytesForLevelBase: 256 * 1024 * 1024, // 256MB

			ColumnFamilies: map[string]ColumnFamilyConfig{
				CFKeys: {
					WriteBufferSize:       16,
					MaxWriteBufferNumber:  2,
					CompressionType:       "lz4",
					BloomFilterBitsPerKey: 10,
				},
				CFSignatures: {
					WriteBufferSize:       16,
					MaxWriteBufferNumber:  2,
					CompressionType:       "lz4",
					BloomFilterBitsPerKey: 10,
				},
				CFManifests: {
					WriteBufferSize:       8,
					MaxWriteBufferNumber:  1,
					CompressionType:       "zstd",
					BloomFilterBitsPerKey: 10,
				},
				CFUsedKeys: {
					WriteBufferSize:       8,
					MaxWriteBufferNumber:  1,
					CompressionType:       "lz4",
					BloomFilterBitsPerKey: 15,
				},
			},
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.RocksDB.Path == "" {
		return ErrInvalidConfig("rocksdb path cannot be empty")
	}
	return nil
}
