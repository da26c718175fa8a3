// Package sse implements the Presenter contract as a Server-Sent Events
// broadcaster. Each render instruction becomes a named SSE event fanned out
// to every connected client.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/view"
)

// SSE event names.
const (
	EventSnapshot  = "snapshot"
	EventReview    = "review"
	EventSummary   = "summary"
	EventNoSummary = "summary_hidden"
	EventEmpty     = "empty"
)

const clientBuffer = 16

type message struct {
	event string
	data  []byte
}

// Broadcaster fans render events out to connected SSE clients. It implements
// view.Presenter.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[chan message]struct{}
	logger  *slog.Logger
}

// NewBroadcaster creates a broadcaster with no clients.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[chan message]struct{}),
		logger:  logger,
	}
}

var _ view.Presenter = (*Broadcaster)(nil)

type summaryPayload struct {
	Count         int    `json:"count"`
	FormattedMean string `json:"formatted_mean"`
	RoundedMean   int    `json:"rounded_mean"`
}

// RenderFullList broadcasts the complete newest-first list.
func (b *Broadcaster) RenderFullList(reviews []view.DisplayReview) {
	b.broadcast(EventSnapshot, reviews)
}

// PrependOne broadcasts a single new review.
func (b *Broadcaster) PrependOne(review view.DisplayReview) {
	b.broadcast(EventReview, review)
}

// ShowSummary broadcasts the aggregate line.
func (b *Broadcaster) ShowSummary(count int, formattedMean string, roundedMean int) {
	b.broadcast(EventSummary, summaryPayload{
		Count:         count,
		FormattedMean: formattedMean,
		RoundedMean:   roundedMean,
	})
}

// HideSummary tells clients to drop the aggregate line.
func (b *Broadcaster) HideSummary() {
	b.broadcast(EventNoSummary, struct{}{})
}

// ShowEmptyState tells clients to render the no-reviews placeholder.
func (b *Broadcaster) ShowEmptyState() {
	b.broadcast(EventEmpty, struct{}{})
}

func (b *Broadcaster) broadcast(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("marshal sse payload", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.clients {
		select {
		case ch <- message{event: event, data: data}:
		default:
			// Slow client; drop the event rather than block the feed.
		}
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Broadcaster) subscribe() (chan message, func()) {
	ch := make(chan message, clientBuffer)
	b.mu.Lock()
	b.clients[ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.clients, ch)
		b.mu.Unlock()
	}
}

// ServeHTTP streams events to a client until it disconnects. The initial
// parameter allows the caller to seed the stream with the current state
// before live events.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request, initial []func(p view.Presenter)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch, unsubscribe := b.subscribe()
	defer unsubscribe()

	// Seed the new client with the current state through a client-local
	// presenter so other clients do not see the replay.
	seed := &clientPresenter{w: w, flusher: flusher}
	for _, fn := range initial {
		fn(seed)
	}
	flusher.Flush()

	for {
		select {
		case msg := <-ch:
			writeEvent(w, msg.event, msg.data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// clientPresenter writes presenter calls directly to one client's stream.
type clientPresenter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

var _ view.Presenter = (*clientPresenter)(nil)

func (c *clientPresenter) send(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	writeEvent(c.w, event, data)
}

func (c *clientPresenter) RenderFullList(reviews []view.DisplayReview) {
	c.send(EventSnapshot, reviews)
}

func (c *clientPresenter) PrependOne(review view.DisplayReview) {
	c.send(EventReview, review)
}

func (c *clientPresenter) ShowSummary(count int, formattedMean string, roundedMean int) {
	c.send(EventSummary, summaryPayload{Count: count, FormattedMean: formattedMean, RoundedMean: roundedMean})
}

func (c *clientPresenter) HideSummary() {
	c.send(EventNoSummary, struct{}{})
}

func (c *clientPresenter) ShowEmptyState() {
	c.send(EventEmpty, struct{}{})
}
