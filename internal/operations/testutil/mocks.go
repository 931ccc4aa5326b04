package testutil

import (
	"context"
	"sync"
	"time"

	"salesreport/internal/operations"
)

// MockStep is a configurable mock implementation of the Step interface
type MockStep struct {
	IDValue   string
	NameValue string

	// Configurable function
	ExecuteFunc func(ctx context.Context, run *operations.RunState) error

	// Call tracking
	mu           sync.Mutex
	ExecuteCalls int
	ExecuteArgs  []ExecuteCall
}

// ExecuteCall tracks arguments passed to Execute
type ExecuteCall struct {
	Ctx  context.Context
	Run  *operations.RunState
	Time time.Time
}

// ID returns the step ID
func (m *MockStep) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStep) Name() string {
	return m.NameValue
}

// Execute runs the mock execute function
func (m *MockStep) Execute(ctx context.Context, run *operations.RunState) error {
	m.mu.Lock()
	m.ExecuteCalls++
	m.ExecuteArgs = append(m.ExecuteArgs, ExecuteCall{
		Ctx:  ctx,
		Run:  run,
		Time: time.Now(),
	})
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, run)
	}
	return nil
}

// Calls returns the number of Execute calls
func (m *MockStep) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}
