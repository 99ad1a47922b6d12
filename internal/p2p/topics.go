package p2p

import (
	"fmt"
	"regexp"
	"strings"
)

// Topic names for the signature aggregation gossip layer.
const (
	// TopicPartialSignatures is where signers publish their individual
	// bsots signatures for a given batch.
	TopicPartialSignatures = "bsots/partials"

	// TopicBatchPrefix namespaces per-batch partial-signature topics, so a
	// collector only subscribes to the batches it is assembling.
	TopicBatchPrefix = "bsots/batch/"

	// TopicAggregates is where collectors publish finished aggregate
	// signatures together with the public keys and messages they cover.
	TopicAggregates = "bsots/aggregates"
)

var (
	batchTopicRegex = regexp.MustCompile(`^bsots/batch/[a-zA-Z0-9._-]+$`)
)

// TopicManager manages topic name validation and sizing policy for the
// gossip collector.
type TopicManager struct{}

// NewTopicManager creates a new topic manager.
func NewTopicManager() *TopicManager {
	return &TopicManager{}
}

// IsValidTopic checks if a topic name is one this layer understands.
func (tm *TopicManager) IsValidTopic(topic string) bool {
	switch topic {
	case TopicPartialSignatures, TopicAggregates:
		return true
	}
	return batchTopicRegex.MatchString(topic)
}

// GetTopicType returns the category of a topic.
func (tm *TopicManager) GetTopicType(topic string) string {
	switch {
	case topic == TopicPartialSignatures:
		return "partial"
	case topic == TopicAggregates:
		return "aggregate"
	case strings.HasPrefix(topic, TopicBatchPrefix):
		return "batch"
	default:
		return "unknown"
	}
}

// BatchTopic returns the per-batch topic name a collector subscribes to
// while assembling signatures for batchID.
func BatchTopic(batchID string) string {
	return TopicBatchPrefix + batchID
}

// ValidateTopicMessage performs basic validation on a topic message before
// it is handed to the aggregation logic.
func (tm *TopicManager) ValidateTopicMessage(topic string, data []byte) error {
	if !tm.IsValidTopic(topic) {
		return fmt.Errorf("invalid topic: %s", topic)
	}

	if len(data) == 0 {
		return fmt.Errorf("empty message data")
	}

	maxSize := tm.getMaxMessageSize(tm.GetTopicType(topic))
	if len(data) > maxSize {
		return fmt.Errorf("message too large: %d bytes (max %d)", len(data), maxSize)
	}

	return nil
}

// getMaxMessageSize returns the maximum message size for a topic type. A
// partial signature envelope (public key + message + signature) is small,
// so partial and batch topics cap it at 4 KiB, which also bounds the
// message it carries; an aggregate envelope grows with signer count but
// is still bounded.
func (tm *TopicManager) getMaxMessageSize(topicType string) int {
	switch topicType {
	case "partial":
		return 4 * 1024
	case "batch":
		return 4 * 1024
	case "aggregate":
		return 256 * 1024
	default:
		return 16 * 1024
	}
}
