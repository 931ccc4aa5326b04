package operations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/operations"
	"salesreport/internal/operations/testutil"
	sharedtest "salesreport/internal/shared/testutil"
)

func TestRunner_ExecutesStepsInOrder(t *testing.T) {
	logger, _ := sharedtest.NewTestLogger(t)
	steps := []*testutil.MockStep{
		testutil.CreateSuccessfulStep("a", "Step A"),
		testutil.CreateSuccessfulStep("b", "Step B"),
		testutil.CreateSuccessfulStep("c", "Step C"),
	}

	run := operations.NewRunState("run-1", operations.CommandRun)
	err := operations.NewRunner(logger, nil, steps[0], steps[1], steps[2]).Execute(context.Background(), run)
	require.NoError(t, err)

	testutil.AssertRunStatus(t, run, operations.RunStatusCompleted)
	testutil.AssertStepOrder(t, steps, []string{"a", "b", "c"})
	for _, s := range steps {
		testutil.AssertStepCompleted(t, run, s.ID())
		assert.Same(t, run, s.ExecuteArgs[0].Run)
	}
	assert.NotNil(t, run.EndTime)
}

func TestRunner_FailureSkipsRemainingSteps(t *testing.T) {
	logger, handler := sharedtest.NewTestLogger(t)
	cause := errors.New("disk full")
	first := testutil.CreateSuccessfulStep("a", "Step A")
	failing := testutil.CreateFailingStep("b", "Step B", cause)
	last := testutil.CreateSuccessfulStep("c", "Step C")

	run := operations.NewRunState("run-2", operations.CommandRun)
	err := operations.NewRunner(logger, nil, first, failing, last).Execute(context.Background(), run)

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	testutil.AssertErrorType(t, err, operations.ErrorTypeExecution)

	testutil.AssertRunStatus(t, run, operations.RunStatusFailed)
	testutil.AssertStepCompleted(t, run, "a")
	testutil.AssertStepFailed(t, run, "b")
	testutil.AssertStepSkipped(t, run, "c")
	assert.Zero(t, last.Calls())
	assert.Equal(t, "previous step b failed", run.GetStep("c").Message)

	assert.True(t, handler.ContainsMessage("Run failed"))
}

func TestRunner_SkipStepIsNotAFailure(t *testing.T) {
	logger, _ := sharedtest.NewTestLogger(t)
	skipping := testutil.CreateSkippingStep("export", "Export", "nothing to export")
	after := testutil.CreateSuccessfulStep("after", "After")

	run := operations.NewRunState("run-3", operations.CommandRun)
	err := operations.NewRunner(logger, nil, skipping, after).Execute(context.Background(), run)
	require.NoError(t, err)

	testutil.AssertRunStatus(t, run, operations.RunStatusCompleted)
	testutil.AssertStepSkipped(t, run, "export")
	assert.Equal(t, "nothing to export", run.GetStep("export").Message)
	testutil.AssertStepCompleted(t, run, "after")
}

func TestRunner_CancelledContext(t *testing.T) {
	logger, _ := sharedtest.NewTestLogger(t)
	ctx, cancel := context.WithCancel(context.Background())

	first := &testutil.MockStep{
		IDValue:   "a",
		NameValue: "Step A",
		ExecuteFunc: func(context.Context, *operations.RunState) error {
			cancel()
			return nil
		},
	}
	second := testutil.CreateSuccessfulStep("b", "Step B")

	run := operations.NewRunState("run-4", operations.CommandRun)
	err := operations.NewRunner(logger, nil, first, second).Execute(ctx, run)

	require.Error(t, err)
	testutil.AssertErrorType(t, err, operations.ErrorTypeCancellation)
	assert.ErrorIs(t, err, context.Canceled)
	testutil.AssertStepSkipped(t, run, "b")
	assert.Zero(t, second.Calls())
}

func TestRunner_NoSteps(t *testing.T) {
	run := operations.NewRunState("run-5", operations.CommandRun)
	require.NoError(t, operations.NewRunner(nil, nil).Execute(context.Background(), run))
	testutil.AssertRunStatus(t, run, operations.RunStatusCompleted)
	assert.Empty(t, run.Steps)
}
