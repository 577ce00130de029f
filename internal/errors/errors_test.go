package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ValidationError("Please select a file")
	wrapped := Wrap(base, "image submission rejected")

	assert.Equal(t, CodeValidationError, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "image submission rejected: Please select a file", wrapped.Error())
}

func TestWrapForeignErrorIsInternal(t *testing.T) {
	wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestMessage(t *testing.T) {
	err := ExternalServiceError("Backend API request timeout", fmt.Errorf("context deadline exceeded"))
	assert.Equal(t, "Backend API request timeout", Message(err))
	assert.Equal(t, "plain", Message(fmt.Errorf("plain")))
	assert.Equal(t, "", Message(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{ValidationError("x"), http.StatusBadRequest},
		{New(CodeInvalidInput, "x"), http.StatusBadRequest},
		{New(CodeNotFound, "Page not found"), http.StatusNotFound},
		{PayloadTooLarge("x"), http.StatusRequestEntityTooLarge},
		{ExternalServiceError("x", nil), http.StatusBadGateway},
		{fmt.Errorf("x"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HTTPStatus(tt.err), tt.err.Error())
	}
}
