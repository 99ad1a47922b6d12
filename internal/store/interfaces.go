package store

import (
	"context"
	"time"
)

// KeyStore persists the content-addressed artifacts of the bsots scheme:
// public keys, one-time and aggregate signatures, and the batch manifests
// that tie a set of signers and messages to an aggregate signature. It
// also tracks which secret keys have been used to sign, since a bsots key
// pair is only sound for a single signature.
type KeyStore interface {
	// StorePublicKey saves a public key's encoded bytes and returns its CID.
	StorePublicKey(ctx context.Context, pkBytes []byte) (string, error)

	// GetPublicKey retrieves a public key's encoded bytes by CID.
	GetPublicKey(ctx context.Context, cidStr string) ([]byte, error)

	// StoreSignature saves a signature's encoded bytes (one-time or
	// aggregate) and returns its CID.
	StoreSignature(ctx context.Context, sigBytes []byte) (string, error)

	// GetSignature retrieves a signature's encoded bytes by CID.
	GetSignature(ctx context.Context, cidStr string) ([]byte, error)

	// StoreBatchManifest saves a batch manifest and returns its CID.
	StoreBatchManifest(ctx context.Context, manifestJSON []byte) (string, error)

	// GetBatchManifest retrieves a batch manifest's canonical JSON by CID.
	GetBatchManifest(ctx context.Context, cidStr string) ([]byte, error)

	// MarkKeyUsed records that a public key's CID has been consumed by a
	// signature, so a later Sign call under the same key pair can be
	// rejected by the caller. Returns ErrExists if already marked.
	MarkKeyUsed(ctx context.Context, pkCID string) error

	// IsKeyUsed reports whether a public key's CID has already been
	// consumed by a signature.
	IsKeyUsed(ctx context.Context, pkCID string) (bool, error)

	// Stats returns storage statistics.
	Stats() KeyStoreStats

	// Close cleanly shuts down the store.
	Close() error
}

// KeyStoreStats contains storage statistics.
type KeyStoreStats struct {
	PublicKeysStored  int64     `json:"public_keys_stored"`
	SignaturesStored  int64     `json:"signatures_stored"`
	ManifestsStored   int64     `json:"manifests_stored"`
	KeysMarkedUsed    int64     `json:"keys_marked_used"`
	LastActivity      time.Time `json:"last_activity"`
}
