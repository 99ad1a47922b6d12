package p2p

import (
	"errors"
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/stretchr/testify/assert"
)

func TestP2PError(t *testing.T) {
	t.Run("BasicError", func(t *testing.T) {
		underlying := errors.New("connection failed")
		p2pErr := NewP2PError("connect", underlying)

		assert.Equal(t, "connect", p2pErr.Op)
		assert.Equal(t, underlying, p2pErr.Err)
		assert.Nil(t, p2pErr.PeerID)
		assert.Empty(t, p2pErr.Topic)
		assert.Equal(t, "p2p connect: connection failed", p2pErr.Error())
	})

	t.Run("WithPeer", func(t *testing.T) {
		peerID, _ := peer.Decode("12D3KooWGBfKT1krEZCRCRFfqKmYJPEzKNYvSFv7X7R2oVVGAr3P")
		underlying := errors.New("peer unreachable")
		p2pErr := NewP2PError("connect", underlying).WithPeer(peerID)

		expectedMsg := "p2p connect: peer unreachable (peer: 12D3KooWGBfKT1krEZCRCRFfqKmYJPEzKNYvSFv7X7R2oVVGAr3P)"
		assert.Equal(t, expectedMsg, p2pErr.Error())
		assert.Equal(t, peerID, *p2pErr.PeerID)
	})

	t.Run("WithTopic", func(t *testing.T) {
		underlying := errors.New("invalid message")
		p2pErr := NewP2PError("publish", underlying).WithTopic(TopicPartialSignatures)

		expectedMsg := "p2p publish: invalid message (topic: bsots/partials)"
		assert.Equal(t, expectedMsg, p2pErr.Error())
		assert.Equal(t, TopicPartialSignatures, p2pErr.Topic)
	})

	t.Run("WithContext", func(t *testing.T) {
		underlying := errors.New("timeout")
		p2pErr := NewP2PError("fetch", underlying).
			WithContext("batch_id", "batch-123").
			WithContext("size", 1024)

		assert.Equal(t, "batch-123", p2pErr.Context["batch_id"])
		assert.Equal(t, 1024, p2pErr.Context["size"])
	})

	t.Run("FullContext", func(t *testing.T) {
		peerID, _ := peer.Decode("12D3KooWGBfKT1krEZCRCRFfqKmYJPEzKNYvSFv7X7R2oVVGAr3P")
		underlying := errors.New("unknown batch")
		p2pErr := NewP2PError("handle_partial", underlying).
			WithPeer(peerID).
			WithTopic(BatchTopic("batch-42")).
			WithContext("signers", 3)

		expectedMsg := "p2p handle_partial: unknown batch (peer: 12D3KooWGBfKT1krEZCRCRFfqKmYJPEzKNYvSFv7X7R2oVVGAr3P) (topic: bsots/batch/batch-42)"
		assert.Equal(t, expectedMsg, p2pErr.Error())
		assert.Equal(t, 3, p2pErr.Context["signers"])
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("original error")
		p2pErr := NewP2PError("test", underlying)

		assert.Equal(t, underlying, p2pErr.Unwrap())
		assert.True(t, errors.Is(p2pErr, underlying))
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("IsRetryable", func(t *testing.T) {
		assert.True(t, IsRetryable(ErrConnectionFailed))
		assert.True(t, IsRetryable(ErrProviderNotFound))
		assert.True(t, IsRetryable(ErrNetworkNotReady))

		assert.False(t, IsRetryable(ErrInvalidTopic))
		assert.False(t, IsRetryable(ErrInvalidMessage))
		assert.False(t, IsRetryable(ErrUnknownBatch))
		assert.False(t, IsRetryable(ErrNodeAlreadyStarted))

		wrapped := NewP2PError("connect", ErrConnectionFailed)
		assert.True(t, IsRetryable(wrapped))

		assert.False(t, IsRetryable(nil))
	})

	t.Run("IsTemporary", func(t *testing.T) {
		assert.True(t, IsTemporary(ErrNetworkNotReady))

		assert.False(t, IsTemporary(ErrInvalidTopic))
		assert.False(t, IsTemporary(ErrUnknownBatch))
		assert.False(t, IsTemporary(ErrNodeNotStarted))

		wrapped := NewP2PError("publish", ErrNetworkNotReady)
		assert.True(t, IsTemporary(wrapped))

		assert.False(t, IsTemporary(nil))
	})
}

func TestStandardErrors(t *testing.T) {
	t.Run("ErrorMessages", func(t *testing.T) {
		errorTests := []struct {
			err      error
			expected string
		}{
			{ErrNodeNotStarted, "p2p node not started"},
			{ErrNodeAlreadyStarted, "p2p node already started"},
			{ErrInvalidTopic, "invalid topic name"},
			{ErrTopicNotSubscribed, "not subscribed to topic"},
			{ErrMessageTooLarge, "message too large"},
			{ErrPeerNotFound, "peer not found"},
			{ErrInvalidMessage, "invalid message format"},
			{ErrProviderNotFound, "no providers found for CID"},
			{ErrDHTNotReady, "DHT not ready"},
			{ErrConnectionFailed, "connection to peer failed"},
			{ErrInvalidCID, "invalid CID"},
			{ErrSubscriptionClosed, "subscription closed"},
			{ErrValidationFailed, "message validation failed"},
			{ErrNetworkNotReady, "network not ready"},
			{ErrUnknownBatch, "unknown batch id"},
			{ErrDuplicateSigner, "signer already contributed to batch"},
		}

		for _, test := range errorTests {
			assert.Equal(t, test.expected, test.err.Error())
		}
	})
}

func TestErrorWrappingBehavior(t *testing.T) {
	t.Run("ErrorsIs", func(t *testing.T) {
		base := ErrConnectionFailed
		wrapped := NewP2PError("connect_peer", base)
		doubleWrapped := NewP2PError("retry_connect", wrapped)

		assert.True(t, errors.Is(wrapped, base))
		assert.True(t, errors.Is(doubleWrapped, base))
		assert.True(t, errors.Is(doubleWrapped, wrapped))
	})

	t.Run("ErrorsAs", func(t *testing.T) {
		base := NewP2PError("test", ErrInvalidTopic)
		wrapped := NewP2PError("validate", base)

		var p2pErr *P2PError
		assert.True(t, errors.As(wrapped, &p2pErr))
		assert.Equal(t, "validate", p2pErr.Op)

		var innerP2pErr *P2PError
		assert.True(t, errors.As(wrapped, &innerP2pErr))
	})
}
