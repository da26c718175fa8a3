package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
)

// streamOnce runs one stream request with an already-cancelled context, so
// the handler writes the seed and returns immediately.
func streamOnce(t *testing.T, router http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reviews/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStream_SeedsEmptyState(t *testing.T) {
	router, _, _ := newTestServer(t)

	rec := streamOnce(t, router)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "event: empty")
}

func TestStream_SeedsSnapshotAndSummary(t *testing.T) {
	router, st, feed := newTestServer(t)

	r := domain.NewReview("John Smith", "great night", 5)
	require.NoError(t, st.Append(context.Background(), r))
	require.Eventually(t, func() bool {
		return len(feed.Snapshot()) == 1
	}, eventuallyWait, eventuallyTick)

	rec := streamOnce(t, router)

	body := rec.Body.String()
	assert.Contains(t, body, "event: snapshot")
	assert.Contains(t, body, "John S.")
	assert.Contains(t, body, "event: summary")
	assert.Contains(t, body, `"formatted_mean":"5.0"`)
}

func TestStream_DegradedSeedsEmpty(t *testing.T) {
	router := newContactRouter(t, "")

	rec := streamOnce(t, router)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "event: empty"))
}
