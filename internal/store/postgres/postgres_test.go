package postgres

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanhandelman-boy/irishcousinevents/internal/domain"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/database"
	"github.com/dylanhandelman-boy/irishcousinevents/pkg/logger"
)

func setupStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	s := NewWithDB(mock, logger.NewWithWriter("test", "error", io.Discard))
	return s, mock
}

func reviewColumns() []string {
	return []string{"id", "name", "review_text", "rating", "submitted_at"}
}

func TestReadOnce_ReturnsAscending(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	first := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	second := time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, name, review_text, rating, submitted_at").
		WillReturnRows(pgxmock.NewRows(reviewColumns()).
			AddRow("id-1", "John Smith", "Brilliant day out", 5, first).
			AddRow("id-2", "Mary Watson", "Lovely music", 4, second))

	reviews, err := s.ReadOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, "id-1", reviews[0].ID)
	assert.Equal(t, "2025-01-10T09:00:00Z", reviews[0].Date)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "id-2", reviews[1].ID)
	assert.Equal(t, "2025-03-02T18:30:00Z", reviews[1].Date)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReadOnce_Empty(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, review_text, rating, submitted_at").
		WillReturnRows(pgxmock.NewRows(reviewColumns()))

	reviews, err := s.ReadOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestReadOnce_QueryError(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, review_text, rating, submitted_at").
		WillReturnError(errors.New("connection refused"))

	_, err := s.ReadOnce(context.Background())
	assert.Error(t, err)
}

func TestAppend_InsertsRow(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	review := domain.NewReview("John Smith", "Great night", 5)
	submittedAt, err := time.Parse(time.RFC3339, review.Date)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO reviews").
		WithArgs(review.ID, review.Name, review.Text, review.Rating, submittedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Append(context.Background(), review))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_BadDateRejected(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	err := s.Append(context.Background(), &domain.Review{
		ID: "id-1", Name: "A", Text: "x", Rating: 3, Date: "garbage",
	})
	assert.Error(t, err)
}

func TestAppend_StoreError(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	review := domain.NewReview("John Smith", "Great night", 5)

	mock.ExpectExec("INSERT INTO reviews").
		WillReturnError(errors.New("deadlock detected"))

	err := s.Append(context.Background(), review)
	assert.Error(t, err)
}

func TestSubscribeAdded_RequiresPool(t *testing.T) {
	s, mock := setupStore(t)
	defer mock.Close()

	_, err := s.SubscribeAdded(context.Background(), func(r *domain.Review) {})
	assert.Error(t, err)
}
