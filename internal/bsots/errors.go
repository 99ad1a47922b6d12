package bsots

import (
	"errors"
	"fmt"
)

// Sentinel errors for the recoverable failure modes this package exposes.
// A structurally valid but mathematically invalid signature is never one
// of these: Verify and AggregateVerify return (false, nil) for that case.
var (
	// ErrEmptyBatch is returned by Aggregate and AggregateVerify when
	// called with zero signers. The scheme does not define a meaningful
	// aggregate over an empty batch; treating it as trivially valid would
	// accept a zero signature against zero inputs.
	ErrEmptyBatch = errors.New("bsots: aggregation batch must have at least one signer")

	// ErrDecode is returned when a secret key, public key, or signature
	// fails to decode: wrong length, non-canonical scalar, or a
	// compressed point that is not a valid Ristretto255 element.
	ErrDecode = errors.New("bsots: decode failed")
)

// Error wraps a failure with the operation that produced it, preserving
// the underlying cause for errors.Is/errors.As while giving callers a
// human-readable operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bsots: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// shapeMismatch reports a programmer error: aggregation input vectors of
// disagreeing length. Per the scheme's error taxonomy this is fatal, not a
// recoverable result — callers are expected to validate shapes themselves
// before calling Aggregate or AggregateVerify.
func shapeMismatch(op string, lens ...int) {
	for _, l := range lens[1:] {
		if l != lens[0] {
			panic(fmt.Sprintf("bsots: %s: mismatched input lengths %v", op, lens))
		}
	}
}
