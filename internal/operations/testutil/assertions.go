package testutil

import (
	"testing"

	"salesreport/internal/operations"
)

// AssertStepStatus verifies a step has the expected status
func AssertStepStatus(t *testing.T, step *operations.StepState, expected operations.StepStatus) {
	t.Helper()
	if step == nil {
		t.Fatal("step state is nil")
	}
	if got := step.GetStatus(); got != expected {
		t.Errorf("step %s status = %v, want %v", step.ID, got, expected)
	}
}

// AssertRunStatus verifies a run has the expected status
func AssertRunStatus(t *testing.T, run *operations.RunState, expected operations.RunStatusValue) {
	t.Helper()
	if run == nil {
		t.Fatal("run state is nil")
	}
	if run.Status != expected {
		t.Errorf("run status = %v, want %v", run.Status, expected)
	}
}

// AssertStepCompleted verifies a step completed successfully
func AssertStepCompleted(t *testing.T, run *operations.RunState, stepID string) {
	t.Helper()
	AssertStepStatus(t, mustStep(t, run, stepID), operations.StepStatusCompleted)
}

// AssertStepFailed verifies a step failed
func AssertStepFailed(t *testing.T, run *operations.RunState, stepID string) {
	t.Helper()
	step := mustStep(t, run, stepID)
	AssertStepStatus(t, step, operations.StepStatusFailed)
	if step.Error == nil {
		t.Errorf("step %s failed without an error", stepID)
	}
}

// AssertStepSkipped verifies a step was skipped
func AssertStepSkipped(t *testing.T, run *operations.RunState, stepID string) {
	t.Helper()
	AssertStepStatus(t, mustStep(t, run, stepID), operations.StepStatusSkipped)
}

// AssertErrorType verifies an error has the expected operation error type
func AssertErrorType(t *testing.T, err error, expectedType operations.ErrorType) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if got := operations.GetErrorType(err); got != expectedType {
		t.Errorf("error type = %v, want %v", got, expectedType)
	}
}

// AssertStepOrder verifies steps were executed in the expected order
func AssertStepOrder(t *testing.T, steps []*MockStep, expectedOrder []string) {
	t.Helper()

	var executed []*MockStep
	for _, step := range steps {
		if step.Calls() > 0 {
			executed = append(executed, step)
		}
	}

	if len(executed) != len(expectedOrder) {
		t.Fatalf("executed %d steps, expected %d", len(executed), len(expectedOrder))
	}

	for i := 1; i < len(executed); i++ {
		if executed[i].ExecuteArgs[0].Time.Before(executed[i-1].ExecuteArgs[0].Time) {
			t.Errorf("step %s ran before %s", executed[i].ID(), executed[i-1].ID())
		}
	}
	for i, step := range executed {
		if step.ID() != expectedOrder[i] {
			t.Errorf("execution order[%d] = %s, want %s", i, step.ID(), expectedOrder[i])
		}
	}
}

func mustStep(t *testing.T, run *operations.RunState, stepID string) *operations.StepState {
	t.Helper()
	step := run.GetStep(stepID)
	if step == nil {
		t.Fatalf("step %s not found", stepID)
	}
	return step
}
