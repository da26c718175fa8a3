package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewPayload struct {
	ID     string `json:"id"`
	Rating int    `json:"rating"`
}

func TestNewEvent(t *testing.T) {
	data := reviewPayload{ID: "rev-1", Rating: 5}

	event, err := NewEvent("site.review.submitted", "rev-1", "review", "site-backend", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "site.review.submitted", event.EventType)
	assert.Equal(t, "rev-1", event.AggregateID)
	assert.Equal(t, "review", event.AggregateType)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Minute)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("site.review.submitted", "rev-1", "review", "site-backend",
		reviewPayload{ID: "rev-1", Rating: 4})
	require.NoError(t, err)
	event.WithCorrelationID("corr-9")

	raw, err := event.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, "corr-9", got.CorrelationID)

	var payload reviewPayload
	require.NoError(t, got.UnmarshalData(&payload))
	assert.Equal(t, 4, payload.Rating)
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{not json"))
	assert.Error(t, err)
}
