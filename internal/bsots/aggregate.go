package bsots

import (
	"bytes"
	"io"

	"github.com/gtank/ristretto255"

	"github.com/samkim-crypto/bsaggots/internal/bsgroup"
	"github.com/samkim-crypto/bsaggots/internal/bshash"
)

// keyDigests returns hash_key(pk) for every public key in pks, the
// fixed-length binding hash_keys_msgs feeds into its running digest.
func keyDigests(pks []PublicKey) [][]byte {
	out := make([][]byte, len(pks))
	for i, pk := range pks {
		enc := pk.Bytes()
		out[i] = bshash.HashKey(enc[:])
	}
	return out
}

// Aggregate collapses n individually-signed (public key, message,
// signature) triples into a single scalar signature. Preconditions:
// len(pks) == len(msgs) == len(sigs) == n >= 1; a violated precondition is
// a programmer error and panics rather than returning an error (see
// shapeMismatch). An empty batch is rejected with ErrEmptyBatch instead of
// trivially producing the zero signature.
//
// Message streams are consumed exactly once, in order; callers that also
// need to verify afterward must supply re-openable sources.
func Aggregate(pks []PublicKey, msgs []io.Reader, sigs []Signature) (Signature, error) {
	if len(pks) == 0 {
		return Signature{}, wrapErr("Aggregate", ErrEmptyBatch)
	}
	shapeMismatch("Aggregate", len(pks), len(msgs), len(sigs))

	seed, _, err := bshash.HashKeysMsgs(keyDigests(pks), msgs)
	if err != nil {
		return Signature{}, wrapErr("Aggregate", err)
	}

	agg := ristretto255.NewScalar()
	for i, sig := range sigs {
		ti, err := bshash.Ti(seed, uint64(i))
		if err != nil {
			return Signature{}, wrapErr("Aggregate", err)
		}
		term := ristretto255.NewScalar().Multiply(ti, sig.S)
		agg.Add(agg, term)
	}

	return Signature{S: agg}, nil
}

// AggregateVerify checks an aggregate signature against n (public key,
// message) pairs. It recomputes the same batch seed and per-signer
// coefficients the aggregator used, so the ordering of pks/msgs at
// verification time must match the ordering used to produce aggSig:
// permuting either side independently of the other changes the bound
// seed and causes rejection.
//
// Preconditions: len(pks) == len(msgs) == n >= 1, enforced the same way
// as Aggregate. A public key that fails to decompress is a decode error,
// not a false verification result.
func AggregateVerify(pks []PublicKey, msgs []io.Reader, aggSig Signature) (bool, error) {
	if len(pks) == 0 {
		return false, wrapErr("AggregateVerify", ErrEmptyBatch)
	}
	shapeMismatch("AggregateVerify", len(pks), len(msgs))

	seed, digests, err := bshash.HashKeysMsgs(keyDigests(pks), msgs)
	if err != nil {
		return false, wrapErr("AggregateVerify", err)
	}

	t := ristretto255.NewIdentityElement()
	for i, pk := range pks {
		gi := ristretto255.NewIdentityElement().Add(
			ristretto255.NewIdentityElement().ScalarMult(digests[i], pk.Y0),
			pk.Y1,
		)

		ti, err := bshash.Ti(seed, uint64(i))
		if err != nil {
			return false, wrapErr("AggregateVerify", err)
		}

		term := ristretto255.NewIdentityElement().ScalarMult(ti, gi)
		t.Add(t, term)
	}

	lhs := bsgroup.ScalarBaseMult(aggSig.S)

	return bytes.Equal(lhs.Bytes(), t.Bytes()), nil
}
