package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanUpdate stands in for the engine's event payload.
type scanUpdate struct {
	SentenceCount int
	ActiveIndex   int
}

func TestBroker_PublishReachesSubscriber(t *testing.T) {
	b := NewBroker[scanUpdate]()
	defer b.Close()

	ch := b.Subscribe(context.Background())
	b.Publish(SentencesEvent, scanUpdate{SentenceCount: 3, ActiveIndex: 0})

	select {
	case ev := <-ch:
		assert.Equal(t, SentencesEvent, ev.Type)
		assert.Equal(t, 3, ev.Payload.SentenceCount)
		assert.False(t, ev.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	b := NewBroker[scanUpdate]()
	defer b.Close()

	ch1 := b.Subscribe(context.Background())
	ch2 := b.Subscribe(context.Background())
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(ActiveChangedEvent, scanUpdate{ActiveIndex: 2})

	for _, ch := range []<-chan Event[scanUpdate]{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, 2, ev.Payload.ActiveIndex)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBroker_PublishNeverBlocksOnFullSubscriber(t *testing.T) {
	b := NewBrokerWithBuffer[scanUpdate](1)
	defer b.Close()

	ch := b.Subscribe(context.Background())

	// Second publish overflows the buffer and is dropped.
	b.Publish(SentencesEvent, scanUpdate{SentenceCount: 1})
	b.Publish(SentencesEvent, scanUpdate{SentenceCount: 2})

	ev := <-ch
	assert.Equal(t, 1, ev.Payload.SentenceCount)

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "expected no buffered second event")
	default:
	}
}

func TestBroker_ContextCancelRemovesSubscriber(t *testing.T) {
	b := NewBroker[scanUpdate]()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := b.Subscribe(ctx)
	require.Equal(t, 1, b.SubscriberCount())

	cancel()

	require.Eventually(t, func() bool {
		return b.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after cancel")
}

func TestBroker_CloseShutsDownSubscribers(t *testing.T) {
	b := NewBroker[scanUpdate]()
	ch := b.Subscribe(context.Background())

	b.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.SubscriberCount())
}

func TestBroker_SubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	b := NewBroker[scanUpdate]()
	b.Close()

	ch := b.Subscribe(context.Background())

	_, ok := <-ch
	assert.False(t, ok)
}

func TestBroker_PublishAfterCloseIsNoop(t *testing.T) {
	b := NewBroker[scanUpdate]()
	b.Close()

	assert.NotPanics(t, func() {
		b.Publish(DocumentChangedEvent, scanUpdate{})
	})
}

func TestBroker_CloseTwice(t *testing.T) {
	b := NewBroker[scanUpdate]()
	b.Close()

	assert.NotPanics(t, b.Close)
}
