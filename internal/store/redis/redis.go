// Package redis implements the review store on Redis: a sorted set scored by
// submission time for ordered reads, and a pub/sub channel for the live
// added feed. Closest analog of a realtime document store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
)

const (
	reviewsKey   = "reviews:by_date"
	addedChannel = "reviews:added"
)

// Store implements store.Store using Redis.
type Store struct {
	client *redis.Client
	logger *slog.Logger
}

// New creates a Redis-backed store.
func New(client *redis.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// ReadOnce returns all reviews ascending by submission date.
func (s *Store) ReadOnce(ctx context.Context) ([]*domain.Review, error) {
	members, err := s.client.ZRange(ctx, reviewsKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange reviews: %w", err)
	}

	reviews := make([]*domain.Review, 0, len(members))
	for _, m := range members {
		var r domain.Review
		if err := json.Unmarshal([]byte(m), &r); err != nil {
			s.logger.Warn("malformed review entry, skipping", slog.String("error", err.Error()))
			continue
		}
		reviews = append(reviews, &r)
	}
	return reviews, nil
}

// Append stores the review in the sorted set and publishes it to live
// subscribers.
func (s *Store) Append(ctx context.Context, review *domain.Review) error {
	submittedAt, err := time.Parse(time.RFC3339, review.Date)
	if err != nil {
		return fmt.Errorf("parse review date: %w", err)
	}

	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("marshal review: %w", err)
	}

	if err := s.client.ZAdd(ctx, reviewsKey, redis.Z{
		Score:  float64(submittedAt.UnixNano()),
		Member: string(data),
	}).Err(); err != nil {
		return fmt.Errorf("redis zadd review: %w", err)
	}

	if err := s.client.Publish(ctx, addedChannel, string(data)).Err(); err != nil {
		return fmt.Errorf("redis publish review: %w", err)
	}

	return nil
}

// SubscribeAdded subscribes to the added channel, replays existing members,
// then delivers published records. Records appended between subscribe and
// replay can arrive twice; the consumer deduplicates by ID.
func (s *Store) SubscribeAdded(ctx context.Context, handler store.AddedHandler) (store.Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)

	pubsub := s.client.Subscribe(subCtx, addedChannel)
	if _, err := pubsub.Receive(subCtx); err != nil {
		_ = pubsub.Close()
		cancel()
		return nil, fmt.Errorf("redis subscribe %s: %w", addedChannel, err)
	}

	sub := &subscription{pubsub: pubsub, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)

		existing, err := s.ReadOnce(subCtx)
		if err != nil {
			if subCtx.Err() == nil {
				s.logger.Error("live feed initial read failed", slog.String("error", err.Error()))
			}
			return
		}
		for _, r := range existing {
			handler(r)
		}

		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var r domain.Review
				if err := json.Unmarshal([]byte(msg.Payload), &r); err != nil {
					s.logger.Warn("malformed review message, skipping",
						slog.String("error", err.Error()))
					continue
				}
				handler(&r)
			case <-subCtx.Done():
				return
			}
		}
	}()

	return sub, nil
}

type subscription struct {
	pubsub    *redis.PubSub
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Close unsubscribes and waits for the delivery goroutine to finish.
func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.pubsub.Close()
		s.cancel()
	})
	<-s.done
	return s.closeErr
}
