package bsots

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(s string) io.Reader { return bytes.NewReader([]byte(s)) }

func mustKeyGen(t *testing.T) (SecretKey, PublicKey) {
	t.Helper()
	sk, pk, err := KeyGen(nil)
	require.NoError(t, err)
	return sk, pk
}

// P1: single-signature correctness.
func TestSignVerify_Correctness(t *testing.T) {
	sk, pk := mustKeyGen(t)

	sig, err := Sign(sk, msg("hello"))
	require.NoError(t, err)

	ok, err := Verify(pk, msg("hello"), sig)
	require.NoError(t, err)
	assert.True(t, ok)
}

// P2: soundness smoke test — a different key pair must not verify.
func TestVerify_WrongKeyRejects(t *testing.T) {
	sk, _ := mustKeyGen(t)
	_, pk2 := mustKeyGen(t)

	sig, err := Sign(sk, msg("hello"))
	require.NoError(t, err)

	ok, err := Verify(pk2, msg("hello"), sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

// P4 (single-signature slice): flipping a signature bit must reject.
func TestVerify_TamperedSignatureRejects(t *testing.T) {
	sk, pk := mustKeyGen(t)

	sig, err := Sign(sk, msg("hello"))
	require.NoError(t, err)

	tampered := sig.Bytes()
	tampered[0] ^= 0x01
	tamperedSig, err := DecodeSignature(tampered[:])
	require.NoError(t, err)

	ok, err := Verify(pk, msg("hello"), tamperedSig)
	require.NoError(t, err)
	assert.False(t, ok)
}

// P8: sign is deterministic in (sk, m).
func TestSign_Deterministic(t *testing.T) {
	sk, _ := mustKeyGen(t)

	sig1, err := Sign(sk, msg("repeat me"))
	require.NoError(t, err)
	sig2, err := Sign(sk, msg("repeat me"))
	require.NoError(t, err)

	assert.Equal(t, sig1.Bytes(), sig2.Bytes())
}

// P6, P7: round-trip and canonical encoding lengths.
func TestEncoding_RoundTripAndLength(t *testing.T) {
	sk, pk := mustKeyGen(t)
	sig, err := Sign(sk, msg("round trip"))
	require.NoError(t, err)

	skBytes := sk.Bytes()
	assert.Len(t, skBytes, SecretKeySize)
	sk2, err := DecodeSecretKey(skBytes[:])
	require.NoError(t, err)
	assert.Equal(t, sk.Bytes(), sk2.Bytes())

	pkBytes := pk.Bytes()
	assert.Len(t, pkBytes, PublicKeySize)
	pk2, err := DecodePublicKey(pkBytes[:])
	require.NoError(t, err)
	assert.Equal(t, pk.Bytes(), pk2.Bytes())

	sigBytes := sig.Bytes()
	assert.Len(t, sigBytes, SignatureSize)
	sig2, err := DecodeSignature(sigBytes[:])
	require.NoError(t, err)
	assert.Equal(t, sig.Bytes(), sig2.Bytes())

	// Round-tripped key still signs/verifies correctly (S6).
	ok, err := Verify(pk2, msg("round trip"), sig2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDecode_RejectsWrongLength(t *testing.T) {
	_, err := DecodeSecretKey(make([]byte, 10))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodePublicKey(make([]byte, 10))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeSignature(make([]byte, 10))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_RejectsNonCanonicalScalar(t *testing.T) {
	// All-0xff bytes are >= the group order l, so this is not a valid
	// canonical scalar encoding.
	var bad [SignatureSize]byte
	for i := range bad {
		bad[i] = 0xff
	}
	_, err := DecodeSignature(bad[:])
	assert.ErrorIs(t, err, ErrDecode)
}
