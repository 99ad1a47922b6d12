package bsots

import "github.com/gtank/ristretto255"

// SecretKey is a Bellare-Shoup one-time secret key: a pair of scalars
// (x0, x1) in Z_l. It is immutable once constructed and safe to share
// between concurrent readers.
type SecretKey struct {
	X0, X1 *ristretto255.Scalar
}

// PublicKey is the corresponding public key: a pair of group elements
// (Y0, Y1) with Yi = xi*g.
type PublicKey struct {
	Y0, Y1 *ristretto255.Element
}

// Signature is a single scalar s in Z_l. The same type represents both a
// single-message signature and an aggregate signature over many
// (public key, message) pairs.
type Signature struct {
	S *ristretto255.Scalar
}
