package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	pkgkafka "github.com/dylanhandelman-boy/irishcousinevents/pkg/kafka"
)

// Kafka topic constants for site domain events.
const (
	TopicReviewSubmitted = "site.review.submitted"
	TopicContactReceived = "site.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypeReview  = "review"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from the site backend.
const SourceSiteBackend = "site-backend"

// ReviewSubmittedData is the payload for a review.submitted event.
type ReviewSubmittedData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Forwarded bool   `json:"forwarded"`
}

// Producer publishes site domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the site backend.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewSubmitted publishes a review.submitted event.
func (p *Producer) PublishReviewSubmitted(ctx context.Context, review *domain.Review) error {
	data := ReviewSubmittedData{
		ID:     review.ID,
		Name:   review.Name,
		Rating: review.Rating,
		Date:   review.Date,
	}

	event, err := pkgkafka.NewEvent(TopicReviewSubmitted, review.ID, AggregateTypeReview, SourceSiteBackend, data)
	if err != nil {
		return fmt.Errorf("create review.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewSubmitted, event); err != nil {
		return fmt.Errorf("publish review.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.submitted event",
		slog.String("review_id", review.ID),
		slog.Int("rating", review.Rating),
	)

	return nil
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, id, name, email string, forwarded bool) error {
	data := ContactReceivedData{
		Name:      name,
		Email:     email,
		Forwarded: forwarded,
	}

	event, err := pkgkafka.NewEvent(TopicContactReceived, id, AggregateTypeContact, SourceSiteBackend, data)
	if err != nil {
		return fmt.Errorf("create contact.received event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContactReceived, event); err != nil {
		return fmt.Errorf("publish contact.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.received event",
		slog.String("contact_id", id),
		slog.Bool("forwarded", forwarded),
	)

	return nil
}
