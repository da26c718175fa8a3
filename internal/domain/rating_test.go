package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingSelection_SelectCommits(t *testing.T) {
	s := NewRatingSelection()

	s.Select(4)

	assert.Equal(t, 4, s.Committed())
	assert.Equal(t, 4, s.Displayed())
}

func TestRatingSelection_SelectOutOfRangeIgnored(t *testing.T) {
	s := NewRatingSelection()
	s.Select(3)

	s.Select(0)
	s.Select(6)
	s.Select(-1)

	assert.Equal(t, 3, s.Committed())
}

func TestRatingSelection_SelectSameValueIdempotent(t *testing.T) {
	s := NewRatingSelection()

	s.Select(5)
	s.Select(5)

	assert.Equal(t, 5, s.Committed())
}

func TestRatingSelection_PreviewDoesNotTouchCommitted(t *testing.T) {
	s := NewRatingSelection()
	s.Select(2)

	s.Preview(5)

	assert.Equal(t, 2, s.Committed())
	assert.Equal(t, 5, s.Displayed())
}

func TestRatingSelection_ClearPreviewRestoresCommitted(t *testing.T) {
	s := NewRatingSelection()
	s.Select(2)
	s.Preview(5)

	s.ClearPreview()

	assert.Equal(t, 2, s.Displayed())
}

func TestRatingSelection_PreviewWithoutCommit(t *testing.T) {
	s := NewRatingSelection()

	s.Preview(4)
	assert.Equal(t, 4, s.Displayed())
	assert.Equal(t, 0, s.Committed())

	s.ClearPreview()
	assert.Equal(t, 0, s.Displayed())
}

func TestRatingSelection_ResetClearsEverything(t *testing.T) {
	s := NewRatingSelection()
	s.Select(3)
	s.Preview(5)

	s.Reset()

	assert.Equal(t, 0, s.Committed())
	assert.Equal(t, 0, s.Displayed())
}
