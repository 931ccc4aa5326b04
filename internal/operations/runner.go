package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"salesreport/internal/infrastructure"
)

// skipError lets a step report that it had nothing to do
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return e.reason
}

// SkipStep returns an error that marks the current step as skipped rather
// than failed
func SkipStep(reason string) error {
	return &skipError{reason: reason}
}

// Runner executes steps sequentially. The first failing step ends the run
// and every later step is marked skipped.
type Runner struct {
	steps     []Step
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
}

// NewRunner creates a runner over steps. A nil telemetry records nothing.
func NewRunner(logger *slog.Logger, telemetry *infrastructure.Telemetry, steps ...Step) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{steps: steps, logger: logger, telemetry: telemetry}
}

// Steps returns the registered steps in execution order
func (r *Runner) Steps() []Step {
	return r.steps
}

// Execute runs every step against run
func (r *Runner) Execute(ctx context.Context, run *RunState) error {
	run.Start()
	for _, step := range r.steps {
		run.AddStep(NewStepState(step.ID(), step.Name()))
	}

	r.logger.InfoContext(ctx, "Run started",
		slog.String("run_id", run.ID),
		slog.String("command", string(run.Command)),
		slog.Int("step_count", len(r.steps)))

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			opErr := NewCancellationError(step.ID(), err)
			r.skipRemaining(run, i, "run cancelled")
			run.Fail(opErr)
			return opErr
		}

		r.logger.InfoContext(ctx, "Executing step",
			slog.String("run_id", run.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(r.steps)))

		if err := r.executeStep(ctx, run, step); err != nil {
			r.skipRemaining(run, i+1, fmt.Sprintf("previous step %s failed", step.ID()))
			run.Fail(err)
			r.logger.ErrorContext(ctx, "Run failed",
				slog.String("run_id", run.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return err
		}
	}

	run.Complete()
	r.logger.InfoContext(ctx, "Run completed",
		slog.String("run_id", run.ID),
		slog.Duration("duration", run.EndTime.Sub(run.StartTime)))
	return nil
}

func (r *Runner) executeStep(ctx context.Context, run *RunState, step Step) error {
	state := run.GetStep(step.ID())
	if state == nil {
		return NewFatalError("step state not found", fmt.Errorf("step %s", step.ID()))
	}

	spanCtx, span := r.telemetry.StartSpan(ctx, "step."+step.ID(),
		attribute.String("step.id", step.ID()),
		attribute.String("run.id", run.ID))
	defer span.End()

	state.Start()
	start := time.Now()
	err := step.Execute(spanCtx, run)
	duration := time.Since(start)

	var skip *skipError
	switch {
	case err == nil:
		state.Complete()
		r.logger.InfoContext(ctx, "Step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", duration))
	case errors.As(err, &skip):
		state.Skip(skip.reason)
		r.logger.InfoContext(ctx, "Step skipped",
			slog.String("step", step.ID()),
			slog.String("reason", skip.reason))
		err = nil
	default:
		wrapped := WrapError(err, step.ID())
		state.Fail(wrapped)
		infrastructure.RecordError(spanCtx, wrapped)
		err = wrapped
	}

	status := string(state.GetStatus())
	if r.telemetry != nil {
		r.telemetry.Metrics.RecordStepDuration(ctx, step.ID(), status, duration)
	}
	return err
}

func (r *Runner) skipRemaining(run *RunState, from int, reason string) {
	for _, step := range r.steps[from:] {
		if state := run.GetStep(step.ID()); state != nil && state.GetStatus() == StepStatusPending {
			state.Skip(reason)
		}
	}
}
