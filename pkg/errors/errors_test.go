package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInput(t *testing.T) {
	err := InvalidInput("name is required")

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "INVALID_INPUT", err.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "name is required")
}

func TestNotFound(t *testing.T) {
	err := NotFound("review", "abc-123")

	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Message, "abc-123")
}

func TestStoreUnavailable_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := StoreUnavailable("could not save review", cause)

	assert.Equal(t, http.StatusServiceUnavailable, err.Status)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestUpstream_WrapsCause(t *testing.T) {
	cause := errors.New("status 500")
	err := Upstream("form service rejected message", cause)

	assert.Equal(t, http.StatusBadGateway, err.Status)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", InvalidInput("bad"), http.StatusBadRequest},
		{"wrapped app error", fmt.Errorf("submit: %w", StoreUnavailable("down", nil)), http.StatusServiceUnavailable},
		{"sentinel not found", fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{"sentinel invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"sentinel upstream", ErrUpstream, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, "load reviews")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load reviews: boom", err.Error())
}
