package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/service"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/store"
	"github.com/dylanhandelman-boy/irishcousinevents/internal/view/sse"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/health"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httpclient"
)

const (
	eventuallyWait = 2 * time.Second
	eventuallyTick = 10 * time.Millisecond
)

func newContactRouter(t *testing.T, forwardURL string) http.Handler {
	t.Helper()
	log := testLogger()

	var client *httpclient.CircuitBreakerClient
	if forwardURL != "" {
		cfg := httpclient.DefaultConfig()
		cfg.MaxRetries = 0
		client = httpclient.NewCircuitBreakerClient(
			httpclient.New(cfg),
			httpclient.CircuitBreakerConfig{
				Name:         "contact-handler-test-" + time.Now().Format("150405.000000000"),
				MaxRequests:  1,
				Timeout:      time.Minute,
				FailureRatio: 0.9,
				MinRequests:  100,
			},
			log,
		)
	}

	contacts := service.NewContactService(client, forwardURL, nil, log)
	submissions := service.NewSubmissionService(nil, nil, log)
	broadcaster := sse.NewBroadcaster(log)

	return NewRouter(RouterConfig{
		Reviews:     NewReviewHandler(submissions, nil, false, log),
		Contact:     NewContactHandler(contacts, log),
		Stream:      NewStreamHandler(broadcaster, nil),
		Health:      health.NewHandler(),
		Logger:      log,
		Environment: "development",
	})
}

func TestSubmitContact_Accepted(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"name":    r.PostFormValue("name"),
			"email":   r.PostFormValue("email"),
			"message": r.PostFormValue("message"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	router := newContactRouter(t, srv.URL)

	rec := postJSON(t, router, "/api/v1/contact", SubmitContactRequest{
		Name:    "John Smith",
		Email:   "john@example.com",
		Message: "Can you play our wedding?",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "john@example.com", gotForm["email"])
}

func TestSubmitContact_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		req  SubmitContactRequest
	}{
		{"missing name", SubmitContactRequest{Email: "a@b.com", Message: "hi"}},
		{"missing email", SubmitContactRequest{Name: "John", Message: "hi"}},
		{"bad email", SubmitContactRequest{Name: "John", Email: "not-an-email", Message: "hi"}},
		{"missing message", SubmitContactRequest{Name: "John", Email: "a@b.com"}},
	}

	router := newContactRouter(t, "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/api/v1/contact", tt.req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			errObj := decodeBody(t, rec)["error"].(map[string]any)
			assert.Equal(t, "VALIDATION_ERROR", errObj["code"])
		})
	}
}

func TestSubmitContact_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	router := newContactRouter(t, srv.URL)

	rec := postJSON(t, router, "/api/v1/contact", SubmitContactRequest{
		Name:    "John Smith",
		Email:   "john@example.com",
		Message: "hello",
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	assert.Equal(t, "UPSTREAM_FAILED", errObj["code"])
}

func TestSubmitContact_NoForwardURLAccepted(t *testing.T) {
	router := newContactRouter(t, "")

	rec := postJSON(t, router, "/api/v1/contact", SubmitContactRequest{
		Name:    "John Smith",
		Email:   "john@example.com",
		Message: "hello",
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

// failingStore rejects every append.
type failingStore struct{}

type noopSub struct{}

func (noopSub) Close() error { return nil }

func (failingStore) ReadOnce(ctx context.Context) ([]*domain.Review, error) { return nil, nil }

func (failingStore) SubscribeAdded(ctx context.Context, handler store.AddedHandler) (store.Subscription, error) {
	return noopSub{}, nil
}

func (failingStore) Append(ctx context.Context, review *domain.Review) error {
	return errors.New("connection refused")
}

func TestSubmitReview_StoreUnavailable(t *testing.T) {
	log := testLogger()
	submissions := service.NewSubmissionService(failingStore{}, nil, log)
	contacts := service.NewContactService(nil, "", nil, log)
	broadcaster := sse.NewBroadcaster(log)

	router := NewRouter(RouterConfig{
		Reviews:     NewReviewHandler(submissions, nil, false, log),
		Contact:     NewContactHandler(contacts, log),
		Stream:      NewStreamHandler(broadcaster, nil),
		Health:      health.NewHandler(),
		Logger:      log,
		Environment: "development",
	})

	rec := postJSON(t, router, "/api/v1/reviews", SubmitReviewRequest{
		Name:   "John Smith",
		Text:   "text",
		Rating: 4,
	})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	errObj := decodeBody(t, rec)["error"].(map[string]any)
	assert.Equal(t, "STORE_UNAVAILABLE", errObj["code"])
}
