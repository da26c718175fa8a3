package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewsWithRatings(ratings ...int) []*Review {
	out := make([]*Review, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, NewReview("Test User", "text", r))
	}
	return out
}

func TestSummarize_EmptyListReturnsNil(t *testing.T) {
	assert.Nil(t, Summarize(nil))
	assert.Nil(t, Summarize([]*Review{}))
}

func TestSummarize_SingleReview(t *testing.T) {
	s := Summarize(reviewsWithRatings(4))

	require.NotNil(t, s)
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 4.0, s.AverageRating)
	assert.Equal(t, "4.0", s.FormattedMean)
	assert.Equal(t, 4, s.RoundedMean)
}

func TestSummarize_MeanOneDecimal(t *testing.T) {
	// (5+4+4)/3 = 4.333... -> "4.3", rounded mean 4
	s := Summarize(reviewsWithRatings(5, 4, 4))

	require.NotNil(t, s)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "4.3", s.FormattedMean)
	assert.Equal(t, 4.3, s.AverageRating)
	assert.Equal(t, 4, s.RoundedMean)
}

func TestSummarize_RoundedMeanFromDisplayedValue(t *testing.T) {
	// (5+4)/2 = 4.5 -> displayed "4.5", rounds up to 5 filled stars
	s := Summarize(reviewsWithRatings(5, 4))

	require.NotNil(t, s)
	assert.Equal(t, "4.5", s.FormattedMean)
	assert.Equal(t, 5, s.RoundedMean)
}

func TestSummarize_AllMinimum(t *testing.T) {
	s := Summarize(reviewsWithRatings(1, 1, 1))

	require.NotNil(t, s)
	assert.Equal(t, "1.0", s.FormattedMean)
	assert.Equal(t, 1, s.RoundedMean)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	reviews := reviewsWithRatings(3, 5)
	before := *reviews[0]

	_ = Summarize(reviews)

	assert.Equal(t, before, *reviews[0])
}
