package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"salesreport/internal/dataprocessing"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/files"
	"salesreport/internal/infrastructure"
	"salesreport/internal/operations"
)

type pipelineCommand struct {
	command operations.Command
	short   string
	long    string
}

var pipelineCommands = []pipelineCommand{
	{
		command: operations.CommandRun,
		short:   "Clean, merge and analyze every raw source",
		long: `Discover the raw sources, clean each one, merge them into a timestamped
combined dataset and write the report tables and charts.`,
	},
	{
		command: operations.CommandClean,
		short:   "Clean the raw sources without merging",
		long:    `Discover the raw sources and write one <source>_clean.csv per readable file.`,
	},
	{
		command: operations.CommandMerge,
		short:   "Merge previously cleaned datasets",
		long:    `Load every <source>_clean.csv from the cleaned directory and write a new combined dataset.`,
	},
	{
		command: operations.CommandAnalyze,
		short:   "Write reports from the latest combined dataset",
		long:    `Load the newest combined_sales_data_*.csv and write the report tables and charts.`,
	},
}

func newPipelineCmd(opts *rootOptions, pc pipelineCommand) *cobra.Command {
	return &cobra.Command{
		Use:   string(pc.command),
		Short: pc.short,
		Long:  pc.long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts, pc.command)
		},
	}
}

func runPipeline(cmd *cobra.Command, opts *rootOptions, command operations.Command) error {
	ctx := cmd.Context()

	env, cleanup, err := opts.setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	p := operations.NewPipeline(env.cfg, env.paths, env.logger, env.telemetry)
	run, err := p.Execute(ctx, command)
	if run != nil {
		renderRun(cmd.OutOrStdout(), run)
	}
	return err
}

func newInspectCmd(opts *rootOptions) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Profile the raw sources without changing anything",
		Long: `Read every discovered raw source and print its shape, the detected column
mapping, inferred column kinds, missing values and the first rows.`,
		Example: `  # Profile the sources under ./data/raw
  salesreport inspect

  # Show ten sample rows per source
  salesreport inspect --rows 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts, rows)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", dataprocessing.DefaultHeadRows, "number of sample rows to show per source")
	return cmd
}

func runInspect(cmd *cobra.Command, opts *rootOptions, rows int) error {
	ctx := cmd.Context()

	env, cleanup, err := opts.setup(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	discovery := files.NewDiscovery(env.paths.BaseDir, infrastructure.WithComponent(env.logger, "discovery"))
	sources, err := discovery.FindSources(env.paths.RawDir, env.cfg.Sources.Patterns)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNoInput, err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: no files matching %v in %s", apperrors.ErrNoInput, env.cfg.Sources.Patterns, env.paths.RawDir)
	}

	reader := dataprocessing.NewReader(infrastructure.WithComponent(env.logger, "reader"))
	out := cmd.OutOrStdout()
	inspected := 0
	for _, f := range sources {
		table, err := reader.ReadTable(f.Path, "", dataprocessing.DefaultReadOptions())
		if err != nil {
			env.logger.WarnContext(ctx, "Source skipped",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			fmt.Fprintf(out, "%s: could not be read: %v\n\n", f.Name, err)
			continue
		}
		renderInspection(out, dataprocessing.Inspect(table, rows))
		inspected++
	}

	if inspected == 0 {
		return fmt.Errorf("%w: none of the %d sources could be read", apperrors.ErrNoInput, len(sources))
	}
	return nil
}
