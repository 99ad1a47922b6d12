package p2p

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicManager(t *testing.T) {
	tm := NewTopicManager()

	t.Run("ValidTopics", func(t *testing.T) {
		validTopics := []string{
			TopicPartialSignatures,
			TopicAggregates,
			BatchTopic("batch-1"),
			BatchTopic("abc.123_-xyz"),
		}

		for _, topic := range validTopics {
			assert.True(t, tm.IsValidTopic(topic), "Topic %s should be valid", topic)
		}
	})

	t.Run("InvalidTopics", func(t *testing.T) {
		invalidTopics := []string{
			"",                       // Empty
			"invalid",                // No category
			"bsots",                  // Missing subtopic
			"bsots/batch/",           // Empty batch id
			"bsots/unknown",          // Invalid subtopic
			"invalid/topic",          // Invalid category
			"bsots/partials/extra",   // Too many parts
			"BSOTS/PARTIALS",         // Wrong case
			"bsots partials",         // Space instead of slash
			"bsots\\partials",        // Backslash
			"bsots/batch/with space", // Space in batch id
		}

		for _, topic := range invalidTopics {
			assert.False(t, tm.IsValidTopic(topic), "Topic %s should be invalid", topic)
		}
	})

	t.Run("GetTopicType", func(t *testing.T) {
		testCases := []struct {
			topic        string
			expectedType string
		}{
			{TopicPartialSignatures, "partial"},
			{TopicAggregates, "aggregate"},
			{BatchTopic("batch-1"), "batch"},
			{"invalid/topic", "unknown"},
			{"", "unknown"},
		}

		for _, tc := range testCases {
			actualType := tm.GetTopicType(tc.topic)
			assert.Equal(t, tc.expectedType, actualType,
				"Topic %s should have type %s, got %s", tc.topic, tc.expectedType, actualType)
		}
	})

	t.Run("BatchTopic", func(t *testing.T) {
		assert.Equal(t, "bsots/batch/batch-42", BatchTopic("batch-42"))
		assert.True(t, tm.IsValidTopic(BatchTopic("batch-42")))
		assert.Equal(t, "batch", tm.GetTopicType(BatchTopic("batch-42")))
	})

	t.Run("ValidateTopicMessage", func(t *testing.T) {
		t.Run("ValidMessages", func(t *testing.T) {
			validCases := []struct {
				topic string
				data  []byte
			}{
				{TopicPartialSignatures, []byte(`{"batch_id":"b1","public_key":"aa"}`)},
				{BatchTopic("b1"), make([]byte, 2*1024)},             // 2KB message
				{TopicAggregates, make([]byte, 200*1024)},            // 200KB, under 256KB limit
			}

			for _, tc := range validCases {
				err := tm.ValidateTopicMessage(tc.topic, tc.data)
				assert.NoError(t, err, "Valid message for topic %s should pass validation", tc.topic)
			}
		})

		t.Run("InvalidMessages", func(t *testing.T) {
			invalidCases := []struct {
				topic string
				data  []byte
				desc  string
			}{
				{TopicPartialSignatures, nil, "nil data"},
				{TopicPartialSignatures, []byte{}, "empty data"},
				{TopicPartialSignatures, make([]byte, 5*1024), "message too large for partial topic"},
				{TopicAggregates, make([]byte, 257 * 1024), "message too large for aggregate topic"},
				{"invalid/topic", []byte("test"), "invalid topic"},
			}

			for _, tc := range invalidCases {
				err := tm.ValidateTopicMessage(tc.topic, tc.data)
				assert.Error(t, err, "Invalid case should fail: %s", tc.desc)
			}
		})
	})

	t.Run("BatchTopics", func(t *testing.T) {
		batchTopics := []string{
			BatchTopic("a1b2c3"),
			BatchTopic("2026-07-31-batch"),
			BatchTopic("batch_42"),
		}

		for _, topic := range batchTopics {
			assert.True(t, tm.IsValidTopic(topic), "Batch topic %s should be valid", topic)
			assert.Equal(t, "batch", tm.GetTopicType(topic))
		}
	})

	t.Run("CaseSensitivity", func(t *testing.T) {
		caseCases := []struct {
			topic string
			valid bool
		}{
			{TopicPartialSignatures, true},
			{"BSOTS/partials", false},
			{"bsots/PARTIALS", false},
			{"BSOTS/PARTIALS", false},
		}

		for _, tc := range caseCases {
			result := tm.IsValidTopic(tc.topic)
			assert.Equal(t, tc.valid, result,
				"Topic %s case sensitivity: expected %v, got %v", tc.topic, tc.valid, result)
		}
	})

	t.Run("TopicParsing", func(t *testing.T) {
		edgeCases := []struct {
			topic string
			valid bool
		}{
			{TopicPartialSignatures, true},
			{TopicPartialSignatures + "/", false},
			{"/" + TopicPartialSignatures, false},
			{"bsots//partials", false},
			{TopicPartialSignatures + " ", false},
			{" " + TopicPartialSignatures, false},
			{"bsots\tpartials", false},
			{"bsots\npartials", false},
		}

		for _, tc := range edgeCases {
			result := tm.IsValidTopic(tc.topic)
			assert.Equal(t, tc.valid, result,
				"Edge case topic '%s': expected %v, got %v", tc.topic, tc.valid, result)
		}
	})

	t.Run("MessageSizeLimits", func(t *testing.T) {
		maxSize := 4 * 1024

		sizeCases := []struct {
			size  int
			valid bool
		}{
			{1, true},
			{1024, true},
			{maxSize - 1, true},
			{maxSize, true},
			{maxSize + 1, false},
			{32 * 1024, false},
		}

		for _, tc := range sizeCases {
			data := make([]byte, tc.size)
			err := tm.ValidateTopicMessage(TopicPartialSignatures, data)

			if tc.valid {
				assert.NoError(t, err, "Message of size %d should be valid", tc.size)
			} else {
				assert.Error(t, err, "Message of size %d should be invalid", tc.size)
			}
		}
	})
}

func TestTopicManagerConcurrency(t *testing.T) {
	tm := NewTopicManager()

	t.Run("ConcurrentValidation", func(t *testing.T) {
		topics := []string{
			TopicPartialSignatures,
			TopicAggregates,
			BatchTopic("batch-1"),
			"invalid/topic",
		}

		done := make(chan bool, len(topics)*10)

		for i := 0; i < 10; i++ {
			for _, topic := range topics {
				go func(t string) {
					tm.IsValidTopic(t)
					tm.GetTopicType(t)
					done <- true
				}(topic)
			}
		}

		for i := 0; i < len(topics)*10; i++ {
			<-done
		}
	})

	t.Run("ConcurrentMessageValidation", func(t *testing.T) {
		data := []byte("test message")
		topics := []string{
			TopicPartialSignatures,
			TopicAggregates,
			BatchTopic("batch-1"),
		}

		done := make(chan bool, len(topics)*5)

		for i := 0; i < 5; i++ {
			for _, topic := range topics {
				go func(t string) {
					tm.ValidateTopicMessage(t, data)
					done <- true
				}(topic)
			}
		}

		for i := 0; i < len(topics)*5; i++ {
			<-done
		}
	})
}

func BenchmarkTopicManager(b *testing.B) {
	tm := NewTopicManager()

	b.Run("IsValidTopic", func(b *testing.B) {
		topics := []string{
			TopicPartialSignatures,
			TopicAggregates,
			BatchTopic("batch-1"),
			"invalid/topic",
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			topic := topics[i%len(topics)]
			tm.IsValidTopic(topic)
		}
	})

	b.Run("GetTopicType", func(b *testing.B) {
		topics := []string{
			TopicPartialSignatures,
			TopicAggregates,
			BatchTopic("batch-1"),
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			topic := topics[i%len(topics)]
			tm.GetTopicType(topic)
		}
	})

	b.Run("ValidateTopicMessage", func(b *testing.B) {
		data := []byte(`{"batch_id":"b1","public_key":"aa"}`)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			tm.ValidateTopicMessage(TopicPartialSignatures, data)
		}
	})
}
