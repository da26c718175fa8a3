package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/service"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httputil"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/validator"
)

// ContactHandler handles HTTP requests for the contact form.
type ContactHandler struct {
	contacts *service.ContactService
	logger   *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(contacts *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contacts: contacts,
		logger:   logger,
	}
}

// SubmitContactRequest is the JSON request body for a contact submission.
type SubmitContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitContact handles POST /api/v1/contact. 202 on accept/forward, 502
// when the upstream form service rejects or is unreachable.
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit

	var req SubmitContactRequest
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

	err := h.contacts.Forward(r.Context(), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{
		Data: map[string]string{"status": "accepted"},
	})
}
