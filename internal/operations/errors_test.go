package operations_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "salesreport/internal/errors"
	"salesreport/internal/operations"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *operations.OperationError
		expected string
	}{
		{
			name:     "with step and cause",
			err:      operations.NewExecutionError("clean", errors.New("boom")),
			expected: "[execution] clean: step execution failed: boom",
		},
		{
			name:     "without step",
			err:      operations.NewFatalError("no output directory", nil),
			expected: "[fatal] no output directory",
		},
		{
			name:     "nil receiver",
			err:      nil,
			expected: "unknown operation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, operations.WrapError(nil, "clean"))
	})

	t.Run("plain error becomes execution error", func(t *testing.T) {
		cause := errors.New("read failed")
		wrapped := operations.WrapError(cause, "clean")
		assert.Equal(t, operations.ErrorTypeExecution, wrapped.Type)
		assert.Equal(t, "clean", wrapped.Step)
		assert.ErrorIs(t, wrapped, cause)
	})

	t.Run("operation error keeps its type", func(t *testing.T) {
		original := operations.NewCancellationError("", nil)
		wrapped := operations.WrapError(original, "merge")
		assert.Same(t, original, wrapped)
		assert.Equal(t, "merge", wrapped.Step)
		assert.Equal(t, operations.ErrorTypeCancellation, wrapped.Type)
	})

	t.Run("no input survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("%w: nothing in data/raw", apperrors.ErrNoInput)
		wrapped := operations.WrapError(err, "discover")
		assert.ErrorIs(t, wrapped, apperrors.ErrNoInput)
	})
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(errors.New("x")))
	assert.Equal(t, operations.ErrorTypeFatal,
		operations.GetErrorType(fmt.Errorf("outer: %w", operations.NewFatalError("x", nil))))
}
