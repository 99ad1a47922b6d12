// Package cid content-addresses the artifacts the bsots scheme produces:
// public keys, one-time signatures, and the batch manifests an aggregator
// assembles out of them. Addressing them by CID lets a store or gossip
// collector refer to a whole batch by a short, self-certifying identifier
// instead of carrying the manifest around.
package cid

import (
	"crypto/sha256"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDGenerator provides content identifier generation functionality
type CIDGenerator struct{}

// NewCIDGenerator creates a new CID generator
func NewCIDGenerator() *CIDGenerator {
	return &CIDGenerator{}
}

// GenerateFromBytes generates a CID from raw bytes using SHA-256
func (g *CIDGenerator) GenerateFromBytes(data []byte) (cid.Cid, error) {
	if len(data) == 0 {
		return cid.Undef, ErrEmptyData
	}

	// Create SHA-256 hash
	hash := sha256.Sum256(data)

	// Create multihash from the SHA-256 hash
	mh, err := multihash.Encode(hash[:], multihash.SHA2_256)
	if err != nil {
		return cid.Undef, fmt.Errorf("failed to create multihash: %w", err)
	}

	// Raw codec for everything this package addresses, including the
	// canonical JSON of a batch manifest (GenerateFromJSON lands here too).
	c := cid.NewCidV1(cid.Raw, mh)

	return c, nil
}

// GenerateFromJSON generates a CID from canonical JSON bytes
func (g *CIDGenerator) GenerateFromJSON(jsonData []byte) (cid.Cid, error) {
	return g.GenerateFromBytes(jsonData)
}

// GeneratePublicKeyCID addresses a bsots public key by its encoded bytes.
func (g *CIDGenerator) GeneratePublicKeyCID(pkBytes []byte) (cid.Cid, error) {
	return g.GenerateFromBytes(pkBytes)
}

// GenerateSignatureCID addresses a bsots signature, one-time or aggregate,
// by its encoded bytes.
func (g *CIDGenerator) GenerateSignatureCID(sigBytes []byte) (cid.Cid, error) {
	return g.GenerateFromBytes(sigBytes)
}

// GenerateBatchManifest builds and addresses a BatchManifest: the ordered
// signer public key CIDs, each signer's message digest, and the CID of the
// resulting aggregate signature. Position in pkCIDs/msgDigests must match
// the position each signer held during aggregation; the manifest's own CID
// is the handle a store or gossip collector uses to name the whole batch.
func (g *CIDGenerator) GenerateBatchManifest(pkCIDs []cid.Cid, msgDigests [][]byte, aggSigCID cid.Cid) (cid.Cid, *BatchManifest, error) {
	if len(pkCIDs) == 0 {
		return cid.Undef, nil, ErrEmptyManifest
	}
	if len(pkCIDs) != len(msgDigests) {
		panic(fmt.Sprintf("cid: mismatched manifest shapes: %d keys, %d digests", len(pkCIDs), len(msgDigests)))
	}

	manifest := &BatchManifest{
		SignerKeys:    make([]string, len(pkCIDs)),
		MessageHashes: make([]string, len(msgDigests)),
		AggregateSig:  aggSigCID.String(),
	}
	for i, c := range pkCIDs {
		manifest.SignerKeys[i] = c.String()
	}
	for i, d := range msgDigests {
		manifest.MessageHashes[i] = fmt.Sprintf("%x", d)
	}

	canonical, err := CanonicalizeJSON(manifest)
	if err != nil {
		return cid.Undef, nil, fmt.Errorf("canonicalize manifest: %w", err)
	}

	c, err := g.GenerateFromJSON(canonical)
	if err != nil {
		return cid.Undef, nil, err
	}
	return c, manifest, nil
}

// ValidateCID validates that a CID string is valid
func (g *CIDGenerator) ValidateCID(cidStr string) error {
	_, err := cid.Parse(cidStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCID, err)
	}
	return nil
}

// ParseCID parses a CID string into a CID object
func (g *CIDGenerator) ParseCID(cidStr string) (cid.Cid, error) {
	c, err := cid.Parse(cidStr)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %v", ErrInvalidCID, err)
	}
	return c, nil
}

// ExtractHash extracts the raw hash bytes from a CID
func (g *CIDGenerator) ExtractHash(c cid.Cid) ([]byte, error) {
	mh := c.Hash()
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMultihash, err)
	}
	return decoded.Digest, nil
}

// IsSHA256CID checks if a CID uses SHA-256 hashing
func (g *CIDGenerator) IsSHA256CID(c cid.Cid) bool {
	mh := c.Hash()
	decoded, err := multihash.Decode(mh)
	if err != nil {
		return false
	}
	return decoded.Code == multihash.SHA2_256
}

// BatchManifest is the content-addressed record of one aggregation batch.
type BatchManifest struct {
	SignerKeys    []string `json:"signer_keys"`
	MessageHashes []string `json:"message_hashes"`
	AggregateSig  string   `json:"aggregate_sig"`
}

// Helper functions for common CID operations

// ParseCIDString is a convenience function for parsing CID strings
func ParseCIDString(cidStr string) (cid.Cid, error) {
	generator := NewCIDGenerator()
	return generator.ParseCID(cidStr)
}

// ValidateCIDString is a convenience function for validating CID strings
func ValidateCIDString(cidStr string) error {
	generator := NewCIDGenerator()
	return generator.ValidateCID(cidStr)
}

// CIDToString converts a CID to its string representation
func CIDToString(c cid.Cid) string {
	return c.String()
}

// CIDToBytes converts a CID to its byte representation
func CIDToBytes(c cid.Cid) []byte {
	return c.Bytes()
}

// BytesToCID converts bytes back to a CID
func BytesToCID(data []byte) (cid.Cid, error) {
	c, err := cid.Cast(data)
	if err != nil {
		return cid.Undef, fmt.Errorf("%w: %v", ErrInvalidCID, err)
	}
	return c, nil
}
