package sse

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/view"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/logger"
)

func newTestBroadcaster() *Broadcaster {
	return NewBroadcaster(logger.NewWithWriter("test", "error", io.Discard))
}

func TestBroadcast_FansOutToAllClients(t *testing.T) {
	b := newTestBroadcaster()

	ch1, unsub1 := b.subscribe()
	ch2, unsub2 := b.subscribe()
	defer unsub1()
	defer unsub2()

	require.Equal(t, 2, b.ClientCount())

	b.PrependOne(view.DisplayReview{ID: "abc", Name: "John S.", Rating: 5})

	for _, ch := range []chan message{ch1, ch2} {
		msg := <-ch
		assert.Equal(t, EventReview, msg.event)
		assert.Contains(t, string(msg.data), `"id":"abc"`)
	}
}

func TestBroadcast_SlowClientDoesNotBlock(t *testing.T) {
	b := newTestBroadcaster()

	_, unsub := b.subscribe()
	defer unsub()

	// Overflow the client buffer; broadcast must drop rather than block.
	for i := 0; i < clientBuffer+5; i++ {
		b.ShowEmptyState()
	}
}

func TestUnsubscribe_RemovesClient(t *testing.T) {
	b := newTestBroadcaster()

	_, unsub := b.subscribe()
	require.Equal(t, 1, b.ClientCount())

	unsub()
	assert.Equal(t, 0, b.ClientCount())
}

func TestShowSummary_Payload(t *testing.T) {
	b := newTestBroadcaster()

	ch, unsub := b.subscribe()
	defer unsub()

	b.ShowSummary(3, "4.3", 4)

	msg := <-ch
	assert.Equal(t, EventSummary, msg.event)
	assert.JSONEq(t, `{"count":3,"formatted_mean":"4.3","rounded_mean":4}`, string(msg.data))
}
