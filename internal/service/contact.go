package service

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/event"
	apperrors "github.com/dylanhandelman-boy/irishcousinevents/pkg/errors"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httpclient"
)

// ContactMessage is a validated contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// ContactService forwards contact form submissions to an external form
// service through a circuit-broken HTTP client. With no forward URL
// configured it accepts submissions locally.
type ContactService struct {
	client     *httpclient.CircuitBreakerClient
	forwardURL string
	events     *event.Producer
	logger     *slog.Logger
}

// NewContactService creates the contact forwarder. forwardURL may be empty
// (degraded local accept); events may be nil.
func NewContactService(client *httpclient.CircuitBreakerClient, forwardURL string, events *event.Producer, logger *slog.Logger) *ContactService {
	return &ContactService{
		client:     client,
		forwardURL: forwardURL,
		events:     events,
		logger:     logger,
	}
}

// Forward sends the message upstream. An upstream failure (including an open
// circuit) is surfaced as an upstream error; the caller maps it to 502.
func (s *ContactService) Forward(ctx context.Context, msg ContactMessage) error {
	id := uuid.New().String()

	if s.forwardURL == "" {
		s.logger.WarnContext(ctx, "no contact forward URL configured, accepting locally",
			slog.String("contact_id", id),
		)
		s.publishReceived(ctx, id, msg, false)
		return nil
	}

	form := url.Values{}
	form.Set("name", msg.Name)
	form.Set("email", msg.Email)
	form.Set("message", msg.Message)

	resp, err := s.client.Post(ctx, s.forwardURL,
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		contactForwardFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "contact forward failed",
			slog.String("contact_id", id),
			slog.String("error", err.Error()),
		)
		return apperrors.Upstream("the contact form could not be delivered", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		contactForwardFailuresTotal.Inc()
		// ParseResponseError consumes and closes the body.
		err := httpclient.ParseResponseError(resp, "contact forwarder")
		s.logger.ErrorContext(ctx, "contact forward rejected",
			slog.String("contact_id", id),
			slog.Int("status", resp.StatusCode),
		)
		return apperrors.Upstream("the contact form could not be delivered", err)
	}
	_ = resp.Body.Close()

	contactForwardedTotal.Inc()
	s.publishReceived(ctx, id, msg, true)

	s.logger.InfoContext(ctx, "contact message forwarded",
		slog.String("contact_id", id),
	)
	return nil
}

func (s *ContactService) publishReceived(ctx context.Context, id string, msg ContactMessage, forwarded bool) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishContactReceived(ctx, id, msg.Name, msg.Email, forwarded); err != nil {
		s.logger.WarnContext(ctx, "contact.received event not published",
			slog.String("contact_id", id),
			slog.String("error", err.Error()),
		)
	}
}
