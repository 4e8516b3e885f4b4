package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceError_Error(t *testing.T) {
	err := NewNotFoundError("PART_NOT_FOUND", "Part not found")
	assert.Equal(t, "Part not found", err.Error())
	assert.Equal(t, KindNotFound, err.Kind)
}

func TestNewSystemError_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := NewSystemError("DATABASE_ERROR", cause)

	assert.Equal(t, "An internal error occurred", err.Message)
	assert.NotContains(t, err.Message, "pq")
	assert.ErrorIs(t, err, cause)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("reclassify: %w", NewValidationError("INVALID_CATEGORY", "bad"))

	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("X", "y")))
	assert.Equal(t, KindSystem, KindOf(errors.New("boom")))
}

func TestAsServiceError(t *testing.T) {
	svcErr := AsServiceError(errors.New("boom"))
	require.NotNil(t, svcErr)
	assert.Equal(t, KindSystem, svcErr.Kind)
	assert.Equal(t, "INTERNAL_ERROR", svcErr.Code)

	original := NewValidationError("INVALID_STATUS", "bad status")
	assert.Same(t, original, AsServiceError(original))
}
