package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dylanhandelman-boy/irishcousinevents/pkg/errors"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/httpclient"
)

func newContactClient() *httpclient.CircuitBreakerClient {
	cfg := httpclient.DefaultConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	return httpclient.NewCircuitBreakerClient(
		httpclient.New(cfg),
		httpclient.CircuitBreakerConfig{
			Name:         "contact-test-" + time.Now().Format("150405.000000000"),
			MaxRequests:  1,
			Timeout:      time.Minute,
			FailureRatio: 0.5,
			MinRequests:  3,
		},
		testLogger(),
	)
}

func sampleMessage() ContactMessage {
	return ContactMessage{
		Name:    "John Smith",
		Email:   "john@example.com",
		Message: "Can you play our wedding?",
	}
}

func TestForward_Success(t *testing.T) {
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

	svc := NewContactService(newContactClient(), srv.URL, nil, testLogger())

	require.NoError(t, svc.Forward(context.Background(), sampleMessage()))
	assert.Equal(t, "John Smith", gotForm["name"])
	assert.Equal(t, "john@example.com", gotForm["email"])
	assert.Equal(t, "Can you play our wedding?", gotForm["message"])
}

func TestForward_UpstreamErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewContactService(newContactClient(), srv.URL, nil, testLogger())

	err := svc.Forward(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestForward_Non2xxSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	svc := NewContactService(newContactClient(), srv.URL, nil, testLogger())

	err := svc.Forward(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestForward_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewContactService(newContactClient(), srv.URL, nil, testLogger())

	for i := 0; i < 3; i++ {
		_ = svc.Forward(context.Background(), sampleMessage())
	}

	// The breaker is open now; the failure no longer reaches upstream.
	err := svc.Forward(context.Background(), sampleMessage())
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestForward_NoURLAcceptsLocally(t *testing.T) {
	svc := NewContactService(nil, "", nil, testLogger())

	assert.NoError(t, svc.Forward(context.Background(), sampleMessage()))
}
