// Package bshash implements the domain-separated hashing used by the
// Bellare-Shoup scheme: hashing an arbitrary message to a scalar, and
// binding a whole aggregation batch (keys and messages) into a shared
// seed plus per-signer aggregation coefficients.
package bshash

import (
	"bufio"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"

	"github.com/samkim-crypto/bsaggots/internal/bsgroup"
)

// bufSize is the chunk size used when streaming a message into the
// digest. It has no bearing on the resulting scalar: SHA-512 is streamed
// exactly the same way regardless of how the caller chunks its input.
const bufSize = 4096

// HashMessage consumes msg to end-of-stream into a SHA-512 digest and
// reduces the 64-byte result into a scalar mod the group order. Any read
// error from msg is returned unwrapped to the caller.
func HashMessage(msg io.Reader) (*ristretto255.Scalar, error) {
	h := sha512.New()
	r := bufio.NewReaderSize(msg, bufSize)
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}
	return bsgroup.ScalarFromWideBytes(h.Sum(nil))
}

// indexSize is the width, in bytes, of the positional index mixed into the
// batch seed and per-signer coefficients. The original prototype this
// scheme is based on used a single byte here, silently wrapping for
// batches of more than 256 signers; this is widened to 8 bytes so the
// binding stays injective for any batch size a caller can construct.
const indexSize = 8

func indexBytes(i uint64) [indexSize]byte {
	var b [indexSize]byte
	binary.BigEndian.PutUint64(b[:], i)
	return b
}

// HashKeysMsgs binds an entire aggregation batch into a single 64-byte
// seed, returning the per-message scalar digests alongside it
// (aggregate_verify needs those digests; computing them here means every
// message stream is read exactly once).
//
// keyDigests must already be the 64-byte SHA-512 digest of each signer's
// canonical public-key encoding (hash_key in the scheme's terms); msgs is
// consumed in order, one stream per signer.
func HashKeysMsgs(keyDigests [][]byte, msgs []io.Reader) (seed [64]byte, digests []*ristretto255.Scalar, err error) {
	if len(keyDigests) != len(msgs) {
		return seed, nil, fmt.Errorf("bshash: keys/messages length mismatch: %d keys, %d messages", len(keyDigests), len(msgs))
	}

	h := sha512.New()

	for i, kd := range keyDigests {
		idx := indexBytes(uint64(i))
		h.Write(idx[:])
		h.Write(kd)
	}

	digests = make([]*ristretto255.Scalar, len(msgs))
	for i, msg := range msgs {
		idx := indexBytes(uint64(i))
		h.Write(idx[:])

		c, err := HashMessage(msg)
		if err != nil {
			return seed, nil, err
		}
		digests[i] = c

		enc := bsgroup.EncodeScalar(c)
		h.Write(enc[:])
	}

	copy(seed[:], h.Sum(nil))
	return seed, digests, nil
}

// HashKey returns the 64-byte SHA-512 digest of a canonical key encoding,
// the fixed-length binding hash_keys_msgs feeds into its running digest
// for each signer.
func HashKey(keyBytes []byte) []byte {
	h := sha512.Sum512(keyBytes)
	return h[:]
}

// Ti derives the deterministic per-signer aggregation coefficient t_i from
// the batch seed and the signer's position i. It is identical for signer
// and verifier given the same (seed, i).
func Ti(seed [64]byte, i uint64) (*ristretto255.Scalar, error) {
	h := sha512.New()
	h.Write(seed[:])
	idx := indexBytes(i)
	h.Write(idx[:])
	return bsgroup.ScalarFromWideBytes(h.Sum(nil))
}
