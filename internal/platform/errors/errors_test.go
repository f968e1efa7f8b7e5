package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")

	assert.Equal(t, TypeValidation, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Nil(t, err.Cause)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Error(), "validation")
	assert.Contains(t, err.Error(), "invalid input")
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("record not found")

	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestUpstreamError(t *testing.T) {
	cause := fmt.Errorf("farm api timeout")
	err := UpstreamError("failed to fetch records", cause)

	assert.Equal(t, TypeUpstream, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus())
	assert.Contains(t, err.Error(), "upstream")
	assert.Contains(t, err.Error(), "farm api timeout")
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("template execution failed")
	err := InternalError("failed to render page", cause)

	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, cause, err.Cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestInternalErrorWithoutCause(t *testing.T) {
	err := InternalError("something went wrong", nil)

	assert.Nil(t, err.Cause)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := UpstreamError("wrapper", cause)

	assert.ErrorIs(t, err, cause)
}

func TestWithContext(t *testing.T) {
	err := ValidationError("bad field").
		WithContext("field", "cattle_tag").
		WithContext("value", "x-17")

	assert.Equal(t, "cattle_tag", err.Context["field"])
	assert.Equal(t, "x-17", err.Context["value"])
}

func TestToResponse(t *testing.T) {
	err := ValidationError("bad input").WithContext("field", "date")
	resp := err.ToResponse()

	assert.Equal(t, "bad input", resp.Error)
	assert.Equal(t, TypeValidation, resp.Type)
	assert.Equal(t, "date", resp.Context["field"])
}

func TestAsStructuredError_PassThrough(t *testing.T) {
	original := NotFoundError("gone")
	got := AsStructuredError(fmt.Errorf("wrapped: %w", original))

	require.NotNil(t, got)
	assert.Equal(t, TypeNotFound, got.Type)
}

func TestAsStructuredError_WrapsPlainError(t *testing.T) {
	got := AsStructuredError(errors.New("boom"))

	require.NotNil(t, got)
	assert.Equal(t, TypeInternal, got.Type)
}

func TestAsStructuredError_Nil(t *testing.T) {
	assert.Nil(t, AsStructuredError(nil))
}
