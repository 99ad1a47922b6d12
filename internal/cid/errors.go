package cid

import "errors"

var (
	// ErrEmptyData indicates attempting to generate CID from empty data
	ErrEmptyData = errors.New("cannot generate CID from empty data")

	// ErrInvalidCID indicates the CID format is invalid
	ErrInvalidCID = errors.New("invalid CID format")

	// ErrContentTooLarge indicates the content exceeds size limits
	ErrContentTooLarge = errors.New("content too large")

	// ErrInvalidMultihash indicates the multihash is invalid
	ErrInvalidMultihash = errors.New("invalid multihash")

	// ErrProviderNotFound indicates no providers found for CID
	ErrProviderNotFound = errors.New("no providers found for CID")

	// ErrEmptyManifest indicates a batch manifest was requested with no signers
	ErrEmptyManifest = errors.New("cannot build a batch manifest with zero signers")

	// ErrCanonicalizationFailed indicates re-canonicalized JSON did not match the input
	ErrCanonicalizationFailed = errors.New("data is not in canonical JSON form")
)