package validator

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email" validate:"required,email"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
}

func TestValidate_Success(t *testing.T) {
	req := sampleRequest{Name: "Jane Doe", Email: "jane@example.com", Rating: 5}

	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	req := sampleRequest{Email: "jane@example.com", Rating: 3}

	err := Validate(req)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "is required", valErr.Fields()["Name"])
}

func TestValidate_RatingBounds(t *testing.T) {
	for _, rating := range []int{-1, 0, 6} {
		req := sampleRequest{Name: "Jane", Email: "jane@example.com", Rating: rating}
		assert.Error(t, Validate(req), "rating %d should fail", rating)
	}
}

func TestValidate_BadEmail(t *testing.T) {
	req := sampleRequest{Name: "Jane", Email: "not-an-email", Rating: 2}

	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a valid email address")
}

func TestDecodeAndValidate(t *testing.T) {
	body := `{"name":"Jane","email":"jane@example.com","rating":4}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))

	var req sampleRequest
	require.NoError(t, DecodeAndValidate(r, &req))
	assert.Equal(t, 4, req.Rating)
}

func TestDecodeAndValidate_MalformedJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var req sampleRequest
	err := DecodeAndValidate(r, &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")
}
