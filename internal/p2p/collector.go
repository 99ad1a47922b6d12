package p2p

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/samkim-crypto/bsaggots/internal/bsots"
)

// PartialSignature is the wire envelope a signer publishes to
// TopicPartialSignatures (or a per-batch topic): one signer's contribution
// to an aggregate signature over their own message.
type PartialSignature struct {
	BatchID   string `json:"batch_id"`
	PublicKey []byte `json:"public_key"`
	Message   []byte `json:"message"`
	Signature []byte `json:"signature"`
}

// AggregateResult is the wire envelope a collector publishes to
// TopicAggregates once a batch is complete.
type AggregateResult struct {
	BatchID      string   `json:"batch_id"`
	PublicKeys   [][]byte `json:"public_keys"`
	Messages     [][]byte `json:"messages"`
	AggregateSig []byte   `json:"aggregate_sig"`
}

// batch tracks the partial signatures collected so far for one batch id,
// in first-seen order. Order matters: bsots.Aggregate and AggregateVerify
// must walk public keys, messages, and signatures in the same sequence.
type batch struct {
	expected  int
	seenKeys  map[string]bool
	pks       []bsots.PublicKey
	msgBytes  [][]byte
	sigs      []bsots.Signature
	createdAt time.Time
}

// Collector accumulates per-signer partial signatures gossiped over
// per-batch topics and aggregates them with bsots once every expected
// signer has contributed, or drops a batch that times out incomplete.
type Collector struct {
	publish func(ctx context.Context, topic string, data []byte) error
	logger  *Logger
	timeout time.Duration

	mu      sync.Mutex
	batches map[string]*batch
}

// NewCollector creates a new batch collector. publish is used to announce
// finished aggregates on TopicAggregates; it is typically P2PHost.Publish.
func NewCollector(publish func(ctx context.Context, topic string, data []byte) error, cfg CollectorConfig) *Collector {
	timeout := cfg.BatchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Collector{
		publish: publish,
		logger:  NewLogger("Collector", LogLevelInfo),
		timeout: timeout,
		batches: make(map[string]*batch),
	}
}

// ExpectBatch registers a batch id and the number of signers it should
// collect before aggregating. Partial signatures received for an
// unregistered batch id are rejected with ErrUnknownBatch.
func (c *Collector) ExpectBatch(batchID string, signerCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.batches[batchID] = &batch{
		expected:  signerCount,
		seenKeys:  make(map[string]bool),
		createdAt: time.Now(),
	}
}

// HandlePartial ingests one signer's partial signature. Once the batch
// reaches its expected signer count it is aggregated and published on
// TopicAggregates, and the batch state is discarded either way.
func (c *Collector) HandlePartial(ctx context.Context, msg *PartialSignature) error {
	pk, err := bsots.DecodePublicKey(msg.PublicKey)
	if err != nil {
		return NewP2PError("handle_partial", err).WithTopic(BatchTopic(msg.BatchID))
	}
	sig, err := bsots.DecodeSignature(msg.Signature)
	if err != nil {
		return NewP2PError("handle_partial", err).WithTopic(BatchTopic(msg.BatchID))
	}

	signerLogger := c.logger.WithBatch(msg.BatchID).WithSigner(msg.PublicKey)

	c.mu.Lock()
	b, ok := c.batches[msg.BatchID]
	if !ok {
		c.mu.Unlock()
		signerLogger.Warn("partial signature for unknown batch")
		return NewP2PError("handle_partial", ErrUnknownBatch).WithTopic(BatchTopic(msg.BatchID))
	}

	keyStr := string(msg.PublicKey)
	if b.seenKeys[keyStr] {
		c.mu.Unlock()
		signerLogger.Warn("duplicate partial signature for signer")
		return NewP2PError("handle_partial", ErrDuplicateSigner).WithTopic(BatchTopic(msg.BatchID))
	}

	b.seenKeys[keyStr] = true
	b.pks = append(b.pks, pk)
	b.msgBytes = append(b.msgBytes, msg.Message)
	b.sigs = append(b.sigs, sig)
	complete := len(b.pks) >= b.expected
	if complete {
		delete(c.batches, msg.BatchID)
	}
	c.mu.Unlock()

	if !complete {
		return nil
	}
	return c.aggregateAndPublish(ctx, msg.BatchID, b)
}

func (c *Collector) aggregateAndPublish(ctx context.Context, batchID string, b *batch) error {
	readers := make([]io.Reader, len(b.msgBytes))
	for i, m := range b.msgBytes {
		readers[i] = bytes.NewReader(m)
	}

	logger := c.logger.WithBatch(batchID)

	aggSig, err := bsots.Aggregate(b.pks, readers, b.sigs)
	if err != nil {
		logger.Error("aggregation failed", map[string]interface{}{"error": err})
		return NewP2PError("aggregate", err).WithTopic(BatchTopic(batchID))
	}

	result := AggregateResult{
		BatchID:      batchID,
		PublicKeys:   make([][]byte, len(b.pks)),
		Messages:     b.msgBytes,
		AggregateSig: func() []byte { s := aggSig.Bytes(); return s[:] }(),
	}
	for i, pk := range b.pks {
		pkBytes := pk.Bytes()
		result.PublicKeys[i] = pkBytes[:]
	}

	data, err := json.Marshal(result)
	if err != nil {
		return NewP2PError("aggregate", err).WithTopic(BatchTopic(batchID))
	}

	logger.Info("aggregated batch", map[string]interface{}{"signers": len(b.pks)})

	return c.publish(ctx, TopicAggregates, data)
}

// SweepExpired drops batches that have been open longer than the
// collector's timeout without reaching their expected signer count.
func (c *Collector) SweepExpired() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expired []string
	now := time.Now()
	for id, b := range c.batches {
		if now.Sub(b.createdAt) > c.timeout {
			expired = append(expired, id)
			delete(c.batches, id)
		}
	}
	return expired
}
