// Package store defines the review store contract: an ordered bulk read, a
// live added feed, and an append. Implementations exist for postgres
// (durable, LISTEN/NOTIFY), redis (sorted set + pub/sub), and memory.
package store

import (
	"context"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
)

// AddedHandler receives one review per added-record notification. Callers
// must tolerate seeing the same record more than once (bulk read and live
// feed can overlap); deduplicate by review ID.
type AddedHandler func(review *domain.Review)

// Subscription is a handle to a live added feed. Close stops delivery and
// releases the underlying connection.
type Subscription interface {
	Close() error
}

// Store is the review persistence contract.
type Store interface {
	// ReadOnce returns all stored reviews ordered ascending by submission
	// date (storage order; presentation reverses it).
	ReadOnce(ctx context.Context) ([]*domain.Review, error)

	// SubscribeAdded registers a handler that fires for every existing
	// record and every record appended afterwards. There is no ordering
	// guarantee relative to ReadOnce. Delivery stops when ctx is cancelled
	// or the subscription is closed.
	SubscribeAdded(ctx context.Context, handler AddedHandler) (Subscription, error)

	// Append persists a new review. It never reorders or mutates existing
	// records.
	Append(ctx context.Context, review *domain.Review) error
}
