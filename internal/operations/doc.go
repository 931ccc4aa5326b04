// Package operations runs the sales pipeline as an ordered list of steps.
//
// A Runner executes steps sequentially against a shared RunState. The first
// step that fails ends the run and the remaining steps are marked skipped. A
// step can return SkipStep to report that it had nothing to do.
//
// Pipeline builds the step list for each command:
//
//	run      discover, clean, merge, analyze, export
//	clean    discover, clean
//	merge    load_cleaned, merge, export
//	analyze  load_combined, analyze
//
// Every execution writes a run manifest to the reports directory, including
// failed runs.
//
// Example usage:
//
//	p := operations.NewPipeline(cfg, paths, logger, telemetry)
//	run, err := p.Execute(ctx, operations.CommandRun)
//	if errors.Is(err, apperrors.ErrNoInput) {
//		// nothing to process
//	}
package operations
