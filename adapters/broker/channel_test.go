package broker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepgrid/interview-practice/domain"
)

func TestPublishSubscribe(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	messages, err := b.Subscribe(ctx, domain.TranscriptTopic, "")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, domain.TranscriptTopic, "", []byte(`{"answer":"hi"}`)))

	msg := <-messages
	assert.Equal(t, domain.TranscriptTopic, msg.Topic)
	assert.Equal(t, []byte(`{"answer":"hi"}`), msg.Payload)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestPublishBeforeSubscribeIsBuffered(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.Publish(ctx, "topic", "", []byte("early")))

	messages, err := b.Subscribe(ctx, "topic", "")
	require.NoError(t, err)
	msg := <-messages
	assert.Equal(t, []byte("early"), msg.Payload)
}

func TestRoutingKeysAreIsolated(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	a, err := b.Subscribe(ctx, "topic", "a")
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "topic", "b", []byte("for b")))

	select {
	case <-a:
		t.Fatal("message routed to the wrong key")
	default:
	}
}

func TestPublishToFullTopicFails(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	for i := 0; i < topicBuffer; i++ {
		require.NoError(t, b.Publish(ctx, "topic", "", []byte("x")))
	}
	assert.Error(t, b.Publish(ctx, "topic", "", []byte("overflow")))
}

func TestClosedBrokerRefusesEverything(t *testing.T) {
	b := NewChannelBroker()
	require.NoError(t, b.Close())

	ctx := context.Background()
	assert.Error(t, b.Publish(ctx, "topic", "", []byte("x")))
	_, err := b.Subscribe(ctx, "topic", "")
	assert.Error(t, err)

	// Closing twice is fine.
	assert.NoError(t, b.Close())
}

func TestTopicCount(t *testing.T) {
	b := NewChannelBroker()
	defer b.Close()
	ctx := context.Background()

	assert.Zero(t, b.TopicCount())
	_, err := b.Subscribe(ctx, "one", "")
	require.NoError(t, err)
	_, err = b.Subscribe(ctx, "two", "")
	require.NoError(t, err)
	assert.Equal(t, 2, b.TopicCount())
}
