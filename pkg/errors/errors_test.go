package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorIncludesCause(t *testing.T) {
	cause := stderrors.New("no such file")
	err := NewSourceUnavailableError("failed to open directory source", cause)

	assert.Equal(t, "SOURCE_UNAVAILABLE: failed to open directory source: no such file", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestTypeOf_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewValidationError("symptoms are required"))

	assert.Equal(t, ErrorTypeValidation, TypeOf(err))
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeExternal))
}

func TestTypeOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(stderrors.New("boom")))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}
