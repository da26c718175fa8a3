// Package postgres is the durable review store: rows in a reviews table,
// with the live added feed driven by LISTEN/NOTIFY from an insert trigger.
package postgres

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const addedChannel = "review_added"

// Migrate runs the reviews schema migrations against the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	return database.RunMigrations(ctx, pool, sub, logger)
}

// Store implements store.Store on PostgreSQL.
type Store struct {
	db     database.DBTX
	pool   *pgxpool.Pool // required for SubscribeAdded; nil in unit tests
	logger *slog.Logger
}

// New creates a PostgreSQL-backed store.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	return &Store{db: pool, pool: pool, logger: logger}
}

// NewWithDB creates a store over any DBTX. SubscribeAdded is unavailable;
// used by unit tests with pgxmock.
func NewWithDB(db database.DBTX, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// ReadOnce returns all reviews ascending by submission date.
func (s *Store) ReadOnce(ctx context.Context) ([]*domain.Review, error) {
	query := `
		SELECT id, name, review_text, rating, submitted_at
		FROM reviews
		ORDER BY submitted_at ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		var (
			r           domain.Review
			submittedAt time.Time
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Text, &r.Rating, &submittedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Date = submittedAt.UTC().Format(time.RFC3339)
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return reviews, nil
}

// Append inserts a review. The insert trigger notifies live subscribers.
func (s *Store) Append(ctx context.Context, review *domain.Review) error {
	submittedAt, err := time.Parse(time.RFC3339, review.Date)
	if err != nil {
		return fmt.Errorf("parse review date: %w", err)
	}

	query := `
		INSERT INTO reviews (id, name, review_text, rating, submitted_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := s.db.Exec(ctx, query,
		review.ID, review.Name, review.Text, review.Rating, submittedAt,
	); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// SubscribeAdded LISTENs on the review_added channel from a dedicated
// connection. Existing rows are delivered first; inserts that land between
// LISTEN and the initial read can be delivered twice, which the consumer
// deduplicates by ID.
func (s *Store) SubscribeAdded(ctx context.Context, handler store.AddedHandler) (store.Subscription, error) {
	if s.pool == nil {
		return nil, errors.New("postgres store: live feed requires a connection pool")
	}

	subCtx, cancel := context.WithCancel(ctx)

	conn, err := s.pool.Acquire(subCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("acquire listen connection: %w", err)
	}

	if _, err := conn.Exec(subCtx, "LISTEN "+addedChannel); err != nil {
		conn.Release()
		cancel()
		return nil, fmt.Errorf("listen %s: %w", addedChannel, err)
	}

	sub := &subscription{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer conn.Release()

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

		for {
			notification, err := conn.Conn().WaitForNotification(subCtx)
			if err != nil {
				if subCtx.Err() == nil {
					s.logger.Error("live feed notification wait failed", slog.String("error", err.Error()))
				}
				return
			}

			var r domain.Review
			if err := json.Unmarshal([]byte(notification.Payload), &r); err != nil {
				s.logger.Warn("malformed review notification, skipping",
					slog.String("payload", notification.Payload),
					slog.String("error", err.Error()),
				)
				continue
			}
			handler(&r)
		}
	}()

	return sub, nil
}

type subscription struct {
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Close cancels the listen loop and waits for it to finish.
func (s *subscription) Close() error {
	s.closeOnce.Do(s.cancel)
	<-s.done
	return nil
}
