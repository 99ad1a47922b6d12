package bsots

import (
	"fmt"

	"github.com/samkim-crypto/bsaggots/internal/bsgroup"
)

// SecretKeySize, PublicKeySize and SignatureSize are the canonical wire
// lengths of the three persisted entity types.
const (
	SecretKeySize = 2 * bsgroup.ScalarSize
	PublicKeySize = 2 * bsgroup.PointSize
	SignatureSize = bsgroup.ScalarSize
)

// Bytes returns the canonical 64-byte encoding x0 || x1.
func (sk SecretKey) Bytes() [SecretKeySize]byte {
	var out [SecretKeySize]byte
	x0 := bsgroup.EncodeScalar(sk.X0)
	x1 := bsgroup.EncodeScalar(sk.X1)
	copy(out[:bsgroup.ScalarSize], x0[:])
	copy(out[bsgroup.ScalarSize:], x1[:])
	return out
}

// DecodeSecretKey decodes a 64-byte x0 || x1 encoding. Non-canonical
// scalars are reported as ErrDecode, never silently accepted or aborted
// on.
func DecodeSecretKey(b []byte) (SecretKey, error) {
	if len(b) != SecretKeySize {
		return SecretKey{}, wrapErr("DecodeSecretKey", ErrDecode)
	}
	x0, err := bsgroup.DecodeScalar(b[:bsgroup.ScalarSize])
	if err != nil {
		return SecretKey{}, wrapErr("DecodeSecretKey", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	x1, err := bsgroup.DecodeScalar(b[bsgroup.ScalarSize:])
	if err != nil {
		return SecretKey{}, wrapErr("DecodeSecretKey", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return SecretKey{X0: x0, X1: x1}, nil
}

// Bytes returns the canonical 64-byte encoding Y0 || Y1.
func (pk PublicKey) Bytes() [PublicKeySize]byte {
	var out [PublicKeySize]byte
	y0 := bsgroup.EncodePoint(pk.Y0)
	y1 := bsgroup.EncodePoint(pk.Y1)
	copy(out[:bsgroup.PointSize], y0[:])
	copy(out[bsgroup.PointSize:], y1[:])
	return out
}

// DecodePublicKey decodes a 64-byte Y0 || Y1 encoding. A compressed point
// that does not decode to a valid Ristretto255 element is reported as
// ErrDecode.
func DecodePublicKey(b []byte) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, wrapErr("DecodePublicKey", ErrDecode)
	}
	y0, err := bsgroup.DecodePoint(b[:bsgroup.PointSize])
	if err != nil {
		return PublicKey{}, wrapErr("DecodePublicKey", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	y1, err := bsgroup.DecodePoint(b[bsgroup.PointSize:])
	if err != nil {
		return PublicKey{}, wrapErr("DecodePublicKey", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return PublicKey{Y0: y0, Y1: y1}, nil
}

// Bytes returns the canonical 32-byte scalar encoding.
func (sig Signature) Bytes() [SignatureSize]byte {
	return bsgroup.EncodeScalar(sig.S)
}

// DecodeSignature decodes a 32-byte canonical scalar encoding.
func DecodeSignature(b []byte) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, wrapErr("DecodeSignature", ErrDecode)
	}
	s, err := bsgroup.DecodeScalar(b)
	if err != nil {
		return Signature{}, wrapErr("DecodeSignature", fmt.Errorf("%w: %w", ErrDecode, err))
	}
	return Signature{S: s}, nil
}
