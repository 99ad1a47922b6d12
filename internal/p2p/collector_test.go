package p2p

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/samkim-crypto/bsaggots/internal/bsots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMsg struct {
	topic string
	data  []byte
}

func recordingPublisher() (func(ctx context.Context, topic string, data []byte) error, *[]publishedMsg, *sync.Mutex) {
	var mu sync.Mutex
	var msgs []publishedMsg
	publish := func(ctx context.Context, topic string, data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		msgs = append(msgs, publishedMsg{topic: topic, data: data})
		return nil
	}
	return publish, &msgs, &mu
}

func makeSigner(t *testing.T, batchID string, msg []byte) *PartialSignature {
	t.Helper()
	sk, pk, err := bsots.KeyGen(rand.Reader)
	require.NoError(t, err)

	sig, err := bsots.Sign(sk, bytes.NewReader(msg))
	require.NoError(t, err)

	pkBytes := pk.Bytes()
	sigBytes := sig.Bytes()
	return &PartialSignature{
		BatchID:   batchID,
		PublicKey: pkBytes[:],
		Message:   msg,
		Signature: sigBytes[:],
	}
}

func TestCollector_AggregatesOnceComplete(t *testing.T) {
	publish, msgs, mu := recordingPublisher()
	c := NewCollector(publish, CollectorConfig{})
	c.ExpectBatch("batch-1", 2)

	p1 := makeSigner(t, "batch-1", []byte("message one"))
	p2 := makeSigner(t, "batch-1", []byte("message two"))

	err := c.HandlePartial(context.Background(), p1)
	require.NoError(t, err)

	mu.Lock()
	assert.Empty(t, *msgs, "should not publish before batch is complete")
	mu.Unlock()

	err = c.HandlePartial(context.Background(), p2)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, *msgs, 1)
	assert.Equal(t, TopicAggregates, (*msgs)[0].topic)

	var result AggregateResult
	require.NoError(t, json.Unmarshal((*msgs)[0].data, &result))
	assert.Equal(t, "batch-1", result.BatchID)
	assert.Len(t, result.PublicKeys, 2)
	assert.Len(t, result.Messages, 2)
	assert.NotEmpty(t, result.AggregateSig)

	pks := make([]bsots.PublicKey, len(result.PublicKeys))
	for i, pkBytes := range result.PublicKeys {
		pk, err := bsots.DecodePublicKey(pkBytes)
		require.NoError(t, err)
		pks[i] = pk
	}
	msgReaders := make([]io.Reader, len(result.Messages))
	for i, m := range result.Messages {
		msgReaders[i] = bytes.NewReader(m)
	}
	aggSig, err := bsots.DecodeSignature(result.AggregateSig)
	require.NoError(t, err)

	valid, err := bsots.AggregateVerify(pks, msgReaders, aggSig)
	require.NoError(t, err)
	assert.True(t, valid, "aggregate signature must verify against the same (pk, msg) pairs")
}

func TestCollector_UnknownBatchRejected(t *testing.T) {
	publish, _, _ := recordingPublisher()
	c := NewCollector(publish, CollectorConfig{})

	p1 := makeSigner(t, "no-such-batch", []byte("msg"))
	err := c.HandlePartial(context.Background(), p1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBatch)
}

func TestCollector_DuplicateSignerRejected(t *testing.T) {
	publish, _, _ := recordingPublisher()
	c := NewCollector(publish, CollectorConfig{})
	c.ExpectBatch("batch-1", 2)

	p1 := makeSigner(t, "batch-1", []byte("msg"))
	require.NoError(t, c.HandlePartial(context.Background(), p1))

	err := c.HandlePartial(context.Background(), p1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSigner)
}

func TestCollector_SweepExpiredDropsStaleBatches(t *testing.T) {
	publish, _, _ := recordingPublisher()
	c := NewCollector(publish, CollectorConfig{BatchTimeout: time.Nanosecond})
	c.ExpectBatch("batch-1", 2)
	time.Sleep(time.Millisecond)

	expired := c.SweepExpired()
	assert.Equal(t, []string{"batch-1"}, expired)

	p1 := makeSigner(t, "batch-1", []byte("msg"))
	err := c.HandlePartial(context.Background(), p1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBatch)
}
