// Command salesreport cleans retail transaction exports, merges them and
// writes summary reports and charts.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/internal/operations"
	"salesreport/pkg/contracts"
)

// rootOptions holds the persistent flags
type rootOptions struct {
	configFile string
	baseDir    string
	logLevel   string
}

// environment is everything a command needs once configuration is loaded
type environment struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, userMessage(err))
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Clean, merge and report on retail sales exports",
		Long: `salesreport reads retail and e-commerce transaction exports (CSV or XLSX),
maps their columns onto one schema, drops invalid rows, merges the sources and
writes summary tables and charts.

Running without a subcommand is the same as "salesreport run".`,
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPipeline(cmd, opts, operations.CommandRun)
		},
	}

	opts.bindFlags(root.PersistentFlags())

	_ = root.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	for _, pc := range pipelineCommands {
		root.AddCommand(newPipelineCmd(opts, pc))
	}
	root.AddCommand(newInspectCmd(opts))

	return root
}

func (o *rootOptions) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&o.configFile, "config", "", "config file (default: ./salesreport.yaml or ./config.yaml)")
	flags.StringVar(&o.baseDir, "base-dir", "", "directory the data, reports and logs locations are relative to")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug|info|warn|error)")
}

// setup loads configuration and starts logging and telemetry. The returned
// cleanup flushes telemetry and closes the log file.
func (o *rootOptions) setup(ctx context.Context) (*environment, func(), error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, nil, apperrors.NewConfigError("invalid --log-level "+o.logLevel, err)
		}
	}

	paths, err := config.NewPaths(o.baseDir, cfg.Paths)
	if err != nil {
		return nil, nil, apperrors.NewConfigError("failed to resolve paths", err)
	}

	logger, err := infrastructure.InitializeLogger(infrastructure.ResolveLoggingConfig(cfg.Logging, paths))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths.LogPathResolution(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, paths, logger)
	if err != nil {
		infrastructure.CloseLogFile()
		return nil, nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	cleanup := func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
		infrastructure.CloseLogFile()
	}

	return &environment{cfg: cfg, paths: paths, logger: logger, telemetry: telemetry}, cleanup, nil
}

// userMessage turns an error into the line printed before a non-zero exit
func userMessage(err error) string {
	if errors.Is(err, apperrors.ErrNoInput) {
		return fmt.Sprintf("Nothing to process: %v\nPlace source files in the raw data directory and try again.", err)
	}
	return fmt.Sprintf("Error: %v", err)
}
