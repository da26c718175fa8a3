package http

import (
	"net/http"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/service"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view/sse"
)

// StreamHandler serves the live review stream over Server-Sent Events.
type StreamHandler struct {
	broadcaster *sse.Broadcaster
	feed        *service.Feed // nil in degraded mode
}

// NewStreamHandler creates a stream handler. feed may be nil when no store is
// configured, in which case clients only get the empty-state seed.
func NewStreamHandler(broadcaster *sse.Broadcaster, feed *service.Feed) *StreamHandler {
	return &StreamHandler{broadcaster: broadcaster, feed: feed}
}

// Stream handles GET /api/v1/reviews/stream. New clients are seeded with the
// current list and summary, then receive live events until they disconnect.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	seed := func(p view.Presenter) {
		if h.feed == nil {
			p.ShowEmptyState()
			return
		}
		h.feed.Seed(p)
	}
	h.broadcaster.ServeHTTP(w, r, []func(view.Presenter){seed})
}
