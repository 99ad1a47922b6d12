// Package bsgroup wraps the Ristretto255 group used by the Bellare-Shoup
// scheme: the fixed generator, canonical scalar/point encoding, and the
// wide reduction of a 64-byte digest into a scalar mod the group order.
//
// All group and field arithmetic is delegated to gtank/ristretto255; this
// package does not implement any cryptographic primitive itself.
package bsgroup

import (
	"errors"
	"fmt"

	"github.com/gtank/ristretto255"
)

// ScalarSize and PointSize are the canonical encoded lengths, in bytes, of
// a scalar and a compressed group element respectively.
const (
	ScalarSize = 32
	PointSize  = 32
)

// ErrInvalidLength indicates a byte slice was not exactly the expected
// canonical length for a scalar or point.
var ErrInvalidLength = errors.New("bsgroup: invalid encoding length")

// ErrNonCanonicalScalar indicates a scalar's byte encoding is not the
// canonical representative of its residue class mod the group order.
var ErrNonCanonicalScalar = errors.New("bsgroup: non-canonical scalar encoding")

// ErrInvalidPoint indicates a byte string does not decode to a valid
// Ristretto255 group element.
var ErrInvalidPoint = errors.New("bsgroup: invalid compressed point")

// generatorSeed is the build-time constant from which the scheme's
// generator is derived. It is interpreted as a compressed Ristretto point
// and decompressed once at package init.
var generatorSeed = [PointSize]byte{
	0xb8, 0xd2, 0x60, 0x44, 0x8d, 0xd3, 0x0a, 0x15,
	0xff, 0x56, 0xc0, 0xf0, 0x32, 0x16, 0xec, 0xc9,
	0xd1, 0xbf, 0xa8, 0xb3, 0x34, 0xd3, 0x69, 0xb1,
	0x72, 0xc5, 0x79, 0x54, 0x3f, 0x69, 0x2b, 0x50,
}

var generator = mustDecodeGenerator()

func mustDecodeGenerator() *ristretto255.Element {
	el := ristretto255.NewIdentityElement()
	if _, err := el.SetCanonicalBytes(generatorSeed[:]); err != nil {
		panic(fmt.Sprintf("bsgroup: hard-coded generator seed does not decode: %v", err))
	}
	return el
}

// Generator returns the scheme's fixed generator g, derived once at
// package init by decompressing the hard-coded 32-byte seed.
func Generator() *ristretto255.Element {
	return ristretto255.NewIdentityElement().Add(ristretto255.NewIdentityElement(), generator)
}

// NewScalar returns the zero scalar.
func NewScalar() *ristretto255.Scalar {
	return ristretto255.NewScalar()
}

// NewElement returns the identity group element.
func NewElement() *ristretto255.Element {
	return ristretto255.NewIdentityElement()
}

// ScalarFromWideBytes reduces a 64-byte digest into a scalar mod the group
// order. The input is expected to be the output of a 512-bit hash; the
// resulting distribution is statistically indistinguishable from uniform
// over Z_l when the input is uniformly random.
func ScalarFromWideBytes(b []byte) (*ristretto255.Scalar, error) {
	if len(b) != 64 {
		return nil, fmt.Errorf("bsgroup: wide reduction input must be 64 bytes, got %d", len(b))
	}
	s, err := ristretto255.NewScalar().SetUniformBytes(b)
	if err != nil {
		return nil, fmt.Errorf("bsgroup: wide reduction failed: %w", err)
	}
	return s, nil
}

// DecodeScalar decodes a 32-byte canonical little-endian scalar encoding.
// Non-canonical encodings (integer value >= the group order) are rejected.
func DecodeScalar(b []byte) (*ristretto255.Scalar, error) {
	if len(b) != ScalarSize {
		return nil, ErrInvalidLength
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonCanonicalScalar, err)
	}
	return s, nil
}

// EncodeScalar returns the canonical 32-byte little-endian encoding of s.
func EncodeScalar(s *ristretto255.Scalar) [ScalarSize]byte {
	var out [ScalarSize]byte
	copy(out[:], s.Bytes())
	return out
}

// DecodePoint decodes a 32-byte compressed Ristretto255 point. Invalid
// encodings (not on the curve, not in the prime-order subgroup, etc.) are
// rejected by the underlying library and surfaced as ErrInvalidPoint.
func DecodePoint(b []byte) (*ristretto255.Element, error) {
	if len(b) != PointSize {
		return nil, ErrInvalidLength
	}
	el, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return el, nil
}

// EncodePoint returns the canonical 32-byte compressed encoding of el.
func EncodePoint(el *ristretto255.Element) [PointSize]byte {
	var out [PointSize]byte
	copy(out[:], el.Bytes())
	return out
}

// ScalarBaseMult returns s*g, where g is the scheme's fixed generator.
func ScalarBaseMult(s *ristretto255.Scalar) *ristretto255.Element {
	return ristretto255.NewIdentityElement().ScalarMult(s, Generator())
}
