package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := NewParseError("followers_1.json", "invalid JSON", stderrors.New("unexpected EOF"))
	assert.Equal(t, "parsing error in followers_1.json: invalid JSON: unexpected EOF", err.Error())

	err = New(ErrorTypeValidation, "bad sort")
	assert.Equal(t, "validation error: bad sort", err.Error())
}

func TestTypeOf(t *testing.T) {
	inner := NewEmptyInputError("following.json")
	wrapped := fmt.Errorf("upload failed: %w", inner)

	assert.Equal(t, ErrorTypeEmptyInput, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeEmptyInput))
	assert.False(t, IsType(wrapped, ErrorTypeParsing))
	assert.False(t, IsType(nil, ErrorTypeParsing))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(stderrors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrorTypeUpload, "cannot read file", cause)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  int
	}{
		{ErrorTypeParsing, http.StatusBadRequest},
		{ErrorTypeUpload, http.StatusBadRequest},
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeEmptyInput, http.StatusOK},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeRateLimit, http.StatusTooManyRequests},
		{ErrorTypeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.errorType))
		})
	}
}

func TestIsUserFacing(t *testing.T) {
	assert.True(t, IsUserFacing(ErrorTypeParsing))
	assert.True(t, IsUserFacing(ErrorTypeEmptyInput))
	assert.False(t, IsUserFacing(ErrorTypeUnknown))
}
