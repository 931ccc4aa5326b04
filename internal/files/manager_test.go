package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreport/internal/config"
)

func testManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()

	paths, err := config.NewPaths(t.TempDir(), config.Default().Paths)
	require.NoError(t, err)
	return NewManager(paths, discardLogger()), paths
}

func TestNewManager(t *testing.T) {
	paths := &config.Paths{}
	manager := NewManager(paths, nil)

	assert.Equal(t, paths, manager.paths)
	assert.NotNil(t, manager.logger)
}

func TestPathResolution(t *testing.T) {
	manager, paths := testManager(t)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"raw", "raw/online_retail.csv", paths.GetRawPath("online_retail.csv")},
		{"cleaned", "cleaned/online_retail_clean.csv", paths.GetCleanedPath("online_retail_clean.csv")},
		{"reports", "reports/run_manifest.json", paths.GetReportPath("run_manifest.json")},
		{"visualizations", "visualizations/top_products.png", paths.GetVisualizationPath("top_products.png")},
		{"logs", "logs/metrics.prom", paths.GetLogPath("metrics.prom")},
		{"base directory", "salesreport.yaml", filepath.Join(paths.BaseDir, "salesreport.yaml")},
		{"absolute", filepath.Join(paths.BaseDir, "x", "y.json"), filepath.Join(paths.BaseDir, "x", "y.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, manager.resolvePath(tt.input))
		})
	}
}

func TestWriteFile(t *testing.T) {
	manager, paths := testManager(t)

	fullPath, err := manager.WriteFile("reports/run_manifest.json", []byte(`{"run_id":"a"}`))
	require.NoError(t, err)
	assert.Equal(t, paths.GetReportPath("run_manifest.json"), fullPath)

	data, err := manager.ReadFile("reports/run_manifest.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"a"}`, string(data))

	// Overwrite replaces the content and leaves no temp files behind
	_, err = manager.WriteFile("reports/run_manifest.json", []byte(`{"run_id":"b"}`))
	require.NoError(t, err)

	data, err = os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"b"}`, string(data))

	entries, err := os.ReadDir(paths.ReportsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileExists(t *testing.T) {
	manager, paths := testManager(t)

	assert.False(t, manager.FileExists("cleaned/online_retail_clean.csv"))

	require.NoError(t, manager.EnsureDirectory("cleaned/"))
	require.NoError(t, os.WriteFile(paths.GetCleanedPath("online_retail_clean.csv"), []byte("x"), 0644))

	assert.True(t, manager.FileExists("cleaned/online_retail_clean.csv"))
}

func TestEnsureDirectory(t *testing.T) {
	manager, paths := testManager(t)

	require.NoError(t, manager.EnsureDirectory("visualizations/archive"))

	info, err := os.Stat(filepath.Join(paths.VisualizationsDir, "archive"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	assert.NoError(t, manager.EnsureDirectory("visualizations/archive"))
}
