// Package view defines the presentation contract for the review feed. The
// feed pushes render instructions through a Presenter; implementations decide
// how they reach the client (SSE in production, fakes in tests).
package view

import (
	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
)

// DisplayReview is the display shape of a review: public name form and
// human-readable date, ready to render.
type DisplayReview struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
	Date   string `json:"date,omitempty"`
}

// NewDisplayReview converts a stored review for display. The name is
// shortened ("John Smith" -> "John S.") and the date formatted for reading;
// a bad stored date renders as no date at all. showDate false suppresses the
// date entirely.
func NewDisplayReview(r *domain.Review, showDate bool) DisplayReview {
	d := DisplayReview{
		ID:     r.ID,
		Name:   domain.FormatName(r.Name),
		Text:   r.Text,
		Rating: r.Rating,
	}
	if showDate {
		d.Date = domain.FormatDisplayDate(r.Date)
	}
	return d
}

// Presenter receives render instructions from the feed. Calls arrive
// serialized; implementations need not lock against each other.
type Presenter interface {
	// RenderFullList replaces whatever is shown with the given list,
	// ordered newest-first.
	RenderFullList(reviews []DisplayReview)

	// PrependOne adds a single review to the top of the rendered list.
	PrependOne(review DisplayReview)

	// ShowSummary displays the aggregate line (count, mean text, filled
	// indicator count).
	ShowSummary(count int, formattedMean string, roundedMean int)

	// HideSummary removes the aggregate line.
	HideSummary()

	// ShowEmptyState renders the no-reviews placeholder.
	ShowEmptyState()
}
