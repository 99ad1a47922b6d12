package bsots

import "io"

// Signer is the capability set every one-time signature scheme provides:
// key generation, signing, and verification. A test harness may supply a
// mock implementation of this interface without depending on Ristretto255
// at all.
type Signer interface {
	KeyGen(rand io.Reader) (SecretKey, PublicKey, error)
	Sign(sk SecretKey, msg io.Reader) (Signature, error)
	Verify(pk PublicKey, msg io.Reader, sig Signature) (bool, error)
}

// Aggregator is the extension capability set for schemes that support
// non-interactive signature aggregation. Not every Signer need implement
// it.
type Aggregator interface {
	Aggregate(pks []PublicKey, msgs []io.Reader, sigs []Signature) (Signature, error)
	AggregateVerify(pks []PublicKey, msgs []io.Reader, aggSig Signature) (bool, error)
}

// Scheme is the concrete Bellare-Shoup instantiation over Ristretto255. It
// satisfies both Signer and Aggregator; its methods are thin forwards to
// the package-level functions so callers can depend on the interfaces
// instead of the free functions where that's useful (e.g. behind a mock in
// tests).
type Scheme struct{}

var (
	_ Signer     = Scheme{}
	_ Aggregator = Scheme{}
)

func (Scheme) KeyGen(rand io.Reader) (SecretKey, PublicKey, error) { return KeyGen(rand) }

func (Scheme) Sign(sk SecretKey, msg io.Reader) (Signature, error) { return Sign(sk, msg) }

func (Scheme) Verify(pk PublicKey, msg io.Reader, sig Signature) (bool, error) {
	return Verify(pk, msg, sig)
}

func (Scheme) Aggregate(pks []PublicKey, msgs []io.Reader, sigs []Signature) (Signature, error) {
	return Aggregate(pks, msgs, sigs)
}

func (Scheme) AggregateVerify(pks []PublicKey, msgs []io.Reader, aggSig Signature) (bool, error) {
	return AggregateVerify(pks, msgs, aggSig)
}
