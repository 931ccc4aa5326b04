package testutil

import (
	"context"
	"errors"

	"salesreport/internal/operations"
)

// CreateSuccessfulStep creates a step that always succeeds
func CreateSuccessfulStep(id, name string) *MockStep {
	return &MockStep{
		IDValue:   id,
		NameValue: name,
	}
}

// CreateFailingStep creates a step that always fails with err.
// A nil err uses a generic failure.
func CreateFailingStep(id, name string, err error) *MockStep {
	if err == nil {
		err = errors.New("step failed")
	}
	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, run *operations.RunState) error {
			return err
		},
	}
}

// CreateSkippingStep creates a step that reports it had nothing to do
func CreateSkippingStep(id, name, reason string) *MockStep {
	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, run *operations.RunState) error {
			return operations.SkipStep(reason)
		},
	}
}
