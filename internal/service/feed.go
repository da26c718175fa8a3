package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view"
)

// Feed owns the authoritative newest-first review list and drives the
// presenter. It reconciles the bulk read with the live added subscription:
// the subscription is opened first, live events are buffered until the bulk
// read lands, then snapshot and buffer are merged deduplicated by record ID
// and the gate opens. After that every live event applies directly. This
// closes the window where a record added mid-load would be lost, and the ID
// merge means a record seen by both paths renders exactly once.
//
// All state is mutated under one mutex; store callbacks and the load path
// serialize through it, so presenter calls arrive in order.
type Feed struct {
	store     store.Store
	presenter view.Presenter
	logger    *slog.Logger
	showDate  bool

	mu      sync.Mutex
	loaded  bool
	buffer  []*domain.Review
	reviews []*domain.Review // newest-first
	seen    map[string]struct{}
	sub     store.Subscription
}

// NewFeed creates a feed over the given store and presenter.
func NewFeed(st store.Store, presenter view.Presenter, showDate bool, logger *slog.Logger) *Feed {
	return &Feed{
		store:     st,
		presenter: presenter,
		logger:    logger,
		showDate:  showDate,
		seen:      make(map[string]struct{}),
	}
}

// Start opens the live subscription, performs the bulk read, merges, and
// renders. It returns once the initial render has happened; live events keep
// flowing until Close.
func (f *Feed) Start(ctx context.Context) error {
	sub, err := f.store.SubscribeAdded(ctx, f.onAdded)
	if err != nil {
		return fmt.Errorf("subscribe to added feed: %w", err)
	}
	f.sub = sub

	snapshot, err := f.store.ReadOnce(ctx)
	if err != nil {
		_ = sub.Close()
		f.sub = nil
		return fmt.Errorf("bulk read reviews: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Snapshot arrives ascending; the list renders newest-first.
	for i := len(snapshot) - 1; i >= 0; i-- {
		r := snapshot[i]
		if _, dup := f.seen[r.ID]; dup {
			continue
		}
		f.seen[r.ID] = struct{}{}
		f.reviews = append(f.reviews, r)
	}

	// Events buffered while loading are genuinely newer than the snapshot
	// unless the subscription replay already covered them.
	for _, r := range f.buffer {
		if _, dup := f.seen[r.ID]; dup {
			feedDuplicateEventsTotal.Inc()
			continue
		}
		f.seen[r.ID] = struct{}{}
		f.reviews = append([]*domain.Review{r}, f.reviews...)
	}
	f.buffer = nil
	f.loaded = true

	f.render()

	f.logger.InfoContext(ctx, "review feed started",
		slog.Int("reviews", len(f.reviews)),
	)
	return nil
}

// onAdded is the store subscription callback.
func (f *Feed) onAdded(r *domain.Review) {
	feedLiveEventsTotal.Inc()

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded {
		f.buffer = append(f.buffer, r)
		return
	}

	if _, dup := f.seen[r.ID]; dup {
		feedDuplicateEventsTotal.Inc()
		return
	}
	f.seen[r.ID] = struct{}{}
	f.reviews = append([]*domain.Review{r}, f.reviews...)

	f.presenter.PrependOne(view.NewDisplayReview(r, f.showDate))
	f.pushSummary()
}

// render pushes the full current state. Caller holds the mutex.
func (f *Feed) render() {
	if len(f.reviews) == 0 {
		f.presenter.HideSummary()
		f.presenter.ShowEmptyState()
		return
	}

	display := make([]view.DisplayReview, 0, len(f.reviews))
	for _, r := range f.reviews {
		display = append(display, view.NewDisplayReview(r, f.showDate))
	}
	f.presenter.RenderFullList(display)
	f.pushSummary()
}

// pushSummary recomputes and pushes the aggregate line. Caller holds the
// mutex.
func (f *Feed) pushSummary() {
	summary := domain.Summarize(f.reviews)
	if summary == nil {
		f.presenter.HideSummary()
		return
	}
	f.presenter.ShowSummary(summary.Count, summary.FormattedMean, summary.RoundedMean)
}

// Snapshot returns a copy of the current newest-first list.
func (f *Feed) Snapshot() []*domain.Review {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Review, len(f.reviews))
	copy(out, f.reviews)
	return out
}

// Summary returns the current aggregate, nil when there are no reviews.
func (f *Feed) Summary() *domain.ReviewSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	return domain.Summarize(f.reviews)
}

// Seed replays the feed's current state into the given presenter. Used to
// bring a newly connected client up to date.
func (f *Feed) Seed(p view.Presenter) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.reviews) == 0 {
		p.ShowEmptyState()
		return
	}

	display := make([]view.DisplayReview, 0, len(f.reviews))
	for _, r := range f.reviews {
		display = append(display, view.NewDisplayReview(r, f.showDate))
	}
	p.RenderFullList(display)

	if summary := domain.Summarize(f.reviews); summary != nil {
		p.ShowSummary(summary.Count, summary.FormattedMean, summary.RoundedMean)
	}
}

// Close cancels the live subscription.
func (f *Feed) Close() error {
	if f.sub == nil {
		return nil
	}
	return f.sub.Close()
}
