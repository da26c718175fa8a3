package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a single customer review. Reviews are immutable once created.
type Review struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date"` // RFC 3339, assigned at submission time
}

// NewReview builds a review with a server-assigned ID and submission timestamp.
// Inputs are assumed to be validated and trimmed by the caller.
func NewReview(name, text string, rating int) *Review {
	return &Review{
		ID:     uuid.New().String(),
		Name:   name,
		Text:   text,
		Rating: rating,
		Date:   time.Now().UTC().Format(time.RFC3339),
	}
}

// SubmittedAt parses the review's submission date. The zero time is returned
// for an unparseable date.
func (r *Review) SubmittedAt() time.Time {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
