// Package memory provides an in-memory review store for development and
// tests. Not durable: contents are lost on process exit.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
)

const subscriberBuffer = 64

// Store is an in-memory store.Store implementation.
type Store struct {
	mu          sync.Mutex
	reviews     []*domain.Review
	subscribers map[*subscription]chan *domain.Review
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		subscribers: make(map[*subscription]chan *domain.Review),
	}
}

// ReadOnce returns a copy of the stored reviews ascending by date.
func (s *Store) ReadOnce(ctx context.Context) ([]*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Review, len(s.reviews))
	copy(out, s.reviews)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt().Before(out[j].SubmittedAt())
	})
	return out, nil
}

// Append stores the review and notifies live subscribers.
func (s *Store) Append(ctx context.Context, review *domain.Review) error {
	r := *review

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reviews = append(s.reviews, &r)
	for _, ch := range s.subscribers {
		select {
		case ch <- &r:
		default:
			// Subscriber is too far behind; it will miss this record.
		}
	}
	return nil
}

// SubscribeAdded delivers every existing record and then every future append
// to the handler from a dedicated goroutine.
func (s *Store) SubscribeAdded(ctx context.Context, handler store.AddedHandler) (store.Subscription, error) {
	ch := make(chan *domain.Review, subscriberBuffer)

	s.mu.Lock()
	existing := make([]*domain.Review, len(s.reviews))
	copy(existing, s.reviews)
	sub := &subscription{store: s, done: make(chan struct{})}
	s.subscribers[sub] = ch
	s.mu.Unlock()

	go func() {
		defer close(sub.done)
		for _, r := range existing {
			handler(r)
		}
		for {
			select {
			case r, ok := <-ch:
				if !ok {
					return
				}
				handler(r)
			case <-ctx.Done():
				sub.detach()
				return
			}
		}
	}()

	return sub, nil
}

type subscription struct {
	store    *Store
	done     chan struct{}
	detached sync.Once
}

func (s *subscription) detach() {
	s.detached.Do(func() {
		s.store.mu.Lock()
		if ch, ok := s.store.subscribers[s]; ok {
			delete(s.store.subscribers, s)
			close(ch)
		}
		s.store.mu.Unlock()
	})
}

// Close stops delivery and waits for the delivery goroutine to finish.
func (s *subscription) Close() error {
	s.detach()
	<-s.done
	return nil
}
