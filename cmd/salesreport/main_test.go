package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/internal/shared/testutil"
)

// newBaseDir returns a workspace with file-only logging so test output stays
// readable
func newBaseDir(t *testing.T) string {
	t.Helper()
	t.Setenv("SALES_LOGGING_OUTPUT", "file")
	t.Cleanup(infrastructure.ResetLoggerForTesting)
	return t.TempDir()
}

func writeRawSources(t *testing.T, base string) {
	t.Helper()
	raw := filepath.Join(base, config.DefaultRawDir)
	testutil.WriteFile(t, raw, "online_retail.csv", testutil.OnlineRetailCSV)
	testutil.WriteFile(t, raw, "ecommerce_data.csv", testutil.ECommerceCSV)
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	infrastructure.ResetLoggerForTesting()
	return code, stdout.String(), stderr.String()
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	assert.Equal(t, config.AppName, root.Use)
	for _, name := range []string{"config", "base-dir", "log-level"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "flag %q should exist", name)
	}

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "clean", "merge", "analyze", "inspect"} {
		assert.Contains(t, names, want)
	}

	inspect, _, err := root.Find([]string{"inspect"})
	require.NoError(t, err)
	assert.NotNil(t, inspect.Flags().Lookup("rows"))
}

func TestRun_DefaultCommandRunsPipeline(t *testing.T) {
	base := newBaseDir(t)
	writeRawSources(t, base)

	code, stdout, stderr := execute(t, "--base-dir", base)
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "online_retail")
	assert.Contains(t, stdout, "ecommerce_data")
	assert.Contains(t, stdout, "Total Sales")

	assert.FileExists(t, filepath.Join(base, config.DefaultReportsDir, config.RunManifestFile))
	assert.FileExists(t, filepath.Join(base, config.DefaultReportsDir, config.BasicStatisticsCSV))
	assert.FileExists(t, filepath.Join(base, config.DefaultCleanedDir, "online_retail"+config.CleanedFileSuffix))
	assert.FileExists(t, filepath.Join(base, config.DefaultLogsDir, config.DefaultMetricsFile))
	assert.FileExists(t, filepath.Join(base, config.DefaultLogsDir, config.DefaultLogFile))

	combined, err := filepath.Glob(filepath.Join(base, config.DefaultCleanedDir, config.CombinedFilePattern))
	require.NoError(t, err)
	assert.Len(t, combined, 1)
}

func TestRun_StagedCommands(t *testing.T) {
	base := newBaseDir(t)
	writeRawSources(t, base)

	for _, cmd := range []string{"clean", "merge", "analyze"} {
		code, _, stderr := execute(t, cmd, "--base-dir", base)
		require.Equal(t, 0, code, "%s: %s", cmd, stderr)
	}

	assert.FileExists(t, filepath.Join(base, config.DefaultReportsDir, config.MonthlySalesCSV))
}

func TestRun_NoInputExitsNonZero(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "run", args: []string{"run"}},
		{name: "analyze", args: []string{"analyze"}},
		{name: "inspect", args: []string{"inspect"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := newBaseDir(t)

			code, _, stderr := execute(t, append(tt.args, "--base-dir", base)...)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr, "Nothing to process")
		})
	}
}

func TestRun_InvalidLogLevel(t *testing.T) {
	base := newBaseDir(t)

	code, _, stderr := execute(t, "run", "--base-dir", base, "--log-level", "loud")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "--log-level loud")
}

func TestRun_ConfigFile(t *testing.T) {
	base := newBaseDir(t)
	testutil.WriteFile(t, filepath.Join(base, "inbox"), "online_retail.csv", testutil.OnlineRetailCSV)
	cfgPath := testutil.WriteFile(t, base, "salesreport.yaml", "paths:\n  raw_dir: inbox\noutput:\n  charts: false\n")

	code, _, stderr := execute(t, "clean", "--base-dir", base, "--config", cfgPath)
	require.Equal(t, 0, code, stderr)
	assert.FileExists(t, filepath.Join(base, config.DefaultCleanedDir, "online_retail"+config.CleanedFileSuffix))
}

func TestInspect(t *testing.T) {
	base := newBaseDir(t)
	writeRawSources(t, base)

	code, stdout, stderr := execute(t, "inspect", "--base-dir", base, "--rows", "2")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, "online_retail: 7 rows x 8 columns")
	assert.Contains(t, stdout, "invoice_no")
	assert.Contains(t, stdout, "536365")
	assert.NotContains(t, stdout, "536380")

	entries, err := os.ReadDir(filepath.Join(base, config.DefaultCleanedDir))
	if err == nil {
		assert.Empty(t, entries, "inspect must not write cleaned files")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{
			name:     "no input",
			err:      fmt.Errorf("%w: no files in data/raw", apperrors.ErrNoInput),
			contains: "Nothing to process",
		},
		{
			name:     "other",
			err:      errors.New("disk full"),
			contains: "Error: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, userMessage(tt.err), tt.contains)
		})
	}
}
