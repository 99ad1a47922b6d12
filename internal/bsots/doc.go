// Package bsots implements the Bellare-Shoup one-time signature scheme and
// its non-interactive aggregation layer over the Ristretto255 group.
//
// This is a research prototype: it has no side-channel hardening beyond
// what the underlying group library provides, no protection against
// signing more than one message under a given secret key, and no key
// zeroization. Sign must only ever be called once per SecretKey.
package bsots
