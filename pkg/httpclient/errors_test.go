package httpclient

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/dylanhandelman-boy/irishcousinevents/pkg/errors"
)

func makeResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StructuredBadRequest(t *testing.T) {
	resp := makeResponse(http.StatusBadRequest,
		`{"error":{"code":"INVALID_INPUT","message":"rating out of range"}}`)

	err := ParseResponseError(resp, "contact-forwarder")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "rating out of range")
}

func TestParseResponseError_StructuredServerError(t *testing.T) {
	resp := makeResponse(http.StatusBadGateway,
		`{"error":{"code":"UPSTREAM_FAILED","message":"forwarding failed"}}`)

	err := ParseResponseError(resp, "contact-forwarder")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := makeResponse(http.StatusInternalServerError, "plain text failure")

	err := ParseResponseError(resp, "contact-forwarder")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "plain text failure")
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusNotFound))
	assert.False(t, IsClientError(http.StatusInternalServerError))
	assert.False(t, IsClientError(http.StatusOK))
}
