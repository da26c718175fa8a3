package domain

// RatingSelection tracks the rating a visitor is choosing before submission.
// It holds a committed value (0 = nothing selected) and a transient preview
// shown while hovering over the star widget. Instances are not safe for
// concurrent use; each belongs to a single submission flow.
type RatingSelection struct {
	committed int
	preview   int
}

// NewRatingSelection returns a selection with no committed value.
func NewRatingSelection() *RatingSelection {
	return &RatingSelection{}
}

// Select commits a rating. Values outside 1..5 are ignored. Selecting the
// already-committed value is a no-op.
func (s *RatingSelection) Select(v int) {
	if v < MinRating || v > MaxRating {
		return
	}
	s.committed = v
}

// Preview sets the transient preview value without touching the committed
// value. Values outside 1..5 are ignored.
func (s *RatingSelection) Preview(v int) {
	if v < MinRating || v > MaxRating {
		return
	}
	s.preview = v
}

// ClearPreview drops the preview, restoring the committed value as the
// displayed one.
func (s *RatingSelection) ClearPreview() {
	s.preview = 0
}

// Reset clears both the committed value and the preview.
func (s *RatingSelection) Reset() {
	s.committed = 0
	s.preview = 0
}

// Committed returns the committed rating, 0 if none.
func (s *RatingSelection) Committed() int {
	return s.committed
}

// Displayed returns the value the star widget should show: the preview while
// one is active, otherwise the committed value.
func (s *RatingSelection) Displayed() int {
	if s.preview != 0 {
		return s.preview
	}
	return s.committed
}
