package bsots

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/gtank/ristretto255"

	"github.com/samkim-crypto/bsaggots/internal/bsgroup"
	"github.com/samkim-crypto/bsaggots/internal/bshash"
)

// KeyGen samples a fresh Bellare-Shoup key pair. randSource is the entropy
// source; pass nil to use crypto/rand.Reader. Tests may inject a
// deterministic reader behind this parameter, but production callers must
// use a cryptographic RNG.
func KeyGen(randSource io.Reader) (SecretKey, PublicKey, error) {
	if randSource == nil {
		randSource = rand.Reader
	}

	x0, err := randomScalar(randSource)
	if err != nil {
		return SecretKey{}, PublicKey{}, wrapErr("KeyGen", err)
	}
	x1, err := randomScalar(randSource)
	if err != nil {
		return SecretKey{}, PublicKey{}, wrapErr("KeyGen", err)
	}

	y0 := bsgroup.ScalarBaseMult(x0)
	y1 := bsgroup.ScalarBaseMult(x1)

	return SecretKey{X0: x0, X1: x1}, PublicKey{Y0: y0, Y1: y1}, nil
}

// randomScalar draws a uniformly random scalar mod the group order by
// wide-reducing 64 bytes of randomness.
func randomScalar(randSource io.Reader) (*ristretto255.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(randSource, buf[:]); err != nil {
		return nil, err
	}
	return bsgroup.ScalarFromWideBytes(buf[:])
}

// Sign computes a one-time signature over msg under sk.
//
// This is a one-time scheme: signing two distinct messages under the same
// sk linearly reveals x0 (two equations c1*x0+x1=s1, c2*x0+x1=s2, two
// unknowns). Callers MUST generate a fresh key pair per message.
func Sign(sk SecretKey, msg io.Reader) (Signature, error) {
	c, err := bshash.HashMessage(msg)
	if err != nil {
		return Signature{}, wrapErr("Sign", err)
	}

	s := ristretto255.NewScalar().Add(
		ristretto255.NewScalar().Multiply(c, sk.X0),
		sk.X1,
	)
	return Signature{S: s}, nil
}

// Verify checks sig against msg under pk. It returns (false, nil) for a
// structurally valid but mathematically invalid signature — that is a
// normal outcome, not an error. Only I/O failure on msg is reported as an
// error.
func Verify(pk PublicKey, msg io.Reader, sig Signature) (bool, error) {
	c, err := bshash.HashMessage(msg)
	if err != nil {
		return false, wrapErr("Verify", err)
	}

	lhs := bsgroup.ScalarBaseMult(sig.S)

	rhs := ristretto255.NewIdentityElement().Add(
		ristretto255.NewIdentityElement().ScalarMult(c, pk.Y0),
		pk.Y1,
	)

	return bytes.Equal(lhs.Bytes(), rhs.Bytes()), nil
}
