package domain

import (
	"fmt"
	"math"
)

// ReviewSummary is the aggregate view of a review list. It is derived on
// demand and never stored.
type ReviewSummary struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
	FormattedMean string  `json:"formatted_mean"`
	RoundedMean   int     `json:"rounded_mean"`
}

// Summarize computes the summary for a list of reviews. Returns nil for an
// empty list; a summary is never rendered without at least one review.
func Summarize(reviews []*Review) *ReviewSummary {
	if len(reviews) == 0 {
		return nil
	}

	total := 0
	for _, r := range reviews {
		total += r.Rating
	}

	mean := float64(total) / float64(len(reviews))

	// The displayed mean is rounded to one decimal, and the filled-star
	// count rounds that displayed value, not the raw mean.
	rounded := math.Round(mean*10) / 10

	return &ReviewSummary{
		Count:         len(reviews),
		AverageRating: rounded,
		FormattedMean: fmt.Sprintf("%.1f", mean),
		RoundedMean:   int(math.Round(rounded)),
	}
}
