package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationErrorMatchesSentinel(t *testing.T) {
	err := NewValidationError("phone", "contact phone cannot be empty")

	assert.True(t, errors.Is(err, ErrValidation))

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "phone", validationErr.Field)
	assert.Contains(t, err.Error(), "contact phone cannot be empty")
}

func TestWrapStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapStoreError(cause, "create loan")

	assert.True(t, errors.Is(err, ErrStore))
	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORE_ERROR", appErr.Code)
	assert.Contains(t, err.Error(), "create loan")
}

func TestWrapChannelError(t *testing.T) {
	cause := errors.New("provider unreachable")
	err := WrapChannelError(cause, "place call")

	assert.True(t, errors.Is(err, ErrChannel))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrStore))
}
