package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/event"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
	apperrors "github.com/dylanhandelman-boy/irishcousinevents/pkg/errors"
)

// SubmissionService runs the review submission workflow: validate, persist,
// reset selection, emit the domain event.
type SubmissionService struct {
	store  store.Store // nil when running without a store
	events *event.Producer
	logger *slog.Logger
}

// NewSubmissionService creates the submission workflow. store may be nil
// (degraded mode: submissions validate and succeed without persistence).
// events may be nil when event publishing is disabled.
func NewSubmissionService(st store.Store, events *event.Producer, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		store:  st,
		events: events,
		logger: logger,
	}
}

// Submit validates the input and appends a new review.
//
// Validation failure leaves the selection untouched and never reaches the
// store. A store append failure is surfaced to the caller and the selection
// is NOT reset, so the user can retry without re-entering anything. Only a
// successful submission (or a degraded-mode accept) resets the selection.
func (s *SubmissionService) Submit(ctx context.Context, name, text string, selection *domain.RatingSelection) (*domain.Review, error) {
	name = strings.TrimSpace(name)
	text = strings.TrimSpace(text)

	if name == "" || text == "" || selection.Committed() < domain.MinRating {
		reviewValidationFailuresTotal.Inc()
		return nil, apperrors.InvalidInput("name, review text, and a star rating are all required")
	}

	review := domain.NewReview(name, text, selection.Committed())

	if s.store == nil {
		// Degraded mode: nothing to persist. The submission still
		// succeeds from the user's point of view.
		s.logger.WarnContext(ctx, "no review store configured, submission not persisted",
			slog.String("review_id", review.ID),
		)
		selection.Reset()
		return review, nil
	}

	if err := s.store.Append(ctx, review); err != nil {
		reviewAppendFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "review append failed",
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.StoreUnavailable("the review store is currently unavailable", err)
	}

	selection.Reset()
	reviewsSubmittedTotal.Inc()

	if s.events != nil {
		if err := s.events.PublishReviewSubmitted(ctx, review); err != nil {
			// Best-effort: the review is persisted either way.
			s.logger.WarnContext(ctx, "review.submitted event not published",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "review submitted",
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}
