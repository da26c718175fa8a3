package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/service"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httputil"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	submissions *service.SubmissionService
	feed        *service.Feed // nil in degraded mode
	showDate    bool
	logger      *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler. feed may be nil when
// no store is configured.
func NewReviewHandler(submissions *service.SubmissionService, feed *service.Feed, showDate bool, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		submissions: submissions,
		feed:        feed,
		showDate:    showDate,
		logger:      logger,
	}
}

// SubmitReviewRequest is the JSON request body for submitting a review.
type SubmitReviewRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Text   string `json:"text" validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

type summaryResponse struct {
	Count         int    `json:"count"`
	AverageRating string `json:"average_rating"`
	RoundedMean   int    `json:"rounded_mean"`
}

type listReviewsResponse struct {
	Reviews []view.DisplayReview `json:"reviews"`
	Summary *summaryResponse     `json:"summary,omitempty"`
	Empty   bool                 `json:"empty,omitempty"`
}

// ListReviews handles GET /api/v1/reviews. The list is newest-first with
// display formatting applied; the summary is omitted when there are no
// reviews.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	resp := listReviewsResponse{Reviews: []view.DisplayReview{}}

	if h.feed != nil {
		for _, review := range h.feed.Snapshot() {
			resp.Reviews = append(resp.Reviews, view.NewDisplayReview(review, h.showDate))
		}
		if summary := h.feed.Summary(); summary != nil {
			resp.Summary = &summaryResponse{
				Count:         summary.Count,
				AverageRating: summary.FormattedMean,
				RoundedMean:   summary.RoundedMean,
			}
		}
	}
	resp.Empty = len(resp.Reviews) == 0

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// SubmitReview handles POST /api/v1/reviews.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit

	var req SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	// The star widget's committed selection drives the workflow the same
	// way it does for an interactive session.
	selection := domain.NewRatingSelection()
	selection.Select(req.Rating)

	review, err := h.submissions.Submit(r.Context(), req.Name, req.Text, selection)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: view.NewDisplayReview(review, h.showDate),
	})
}
