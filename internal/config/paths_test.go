package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()

	t.Run("relative entries resolve against base", func(t *testing.T) {
		paths, err := NewPaths(base, Default().Paths)
		require.NoError(t, err)

		assert.Equal(t, base, paths.BaseDir)
		assert.Equal(t, filepath.Join(base, "data", "raw"), paths.RawDir)
		assert.Equal(t, filepath.Join(base, "data", "cleaned"), paths.CleanedDir)
		assert.Equal(t, filepath.Join(base, "reports"), paths.ReportsDir)
		assert.Equal(t, filepath.Join(base, "visualizations"), paths.VisualizationsDir)
		assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)
	})

	t.Run("absolute entries are kept", func(t *testing.T) {
		other := t.TempDir()
		cfg := Default().Paths
		cfg.RawDir = other

		paths, err := NewPaths(base, cfg)
		require.NoError(t, err)
		assert.Equal(t, other, paths.RawDir)
	})

	t.Run("config base dir used when argument empty", func(t *testing.T) {
		cfg := Default().Paths
		cfg.BaseDir = base

		paths, err := NewPaths("", cfg)
		require.NoError(t, err)
		assert.Equal(t, base, paths.BaseDir)
	})

	t.Run("working directory fallback", func(t *testing.T) {
		dir := chdirTemp(t)

		paths, err := NewPaths("", Default().Paths)
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(paths.BaseDir)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestPaths_Resolvers(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(base, Default().Paths)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(paths.CleanedDir, "online_retail_clean.csv"), paths.GetCleanedSourcePath("online_retail"))
	assert.Equal(t, filepath.Join(paths.ReportsDir, BasicStatisticsCSV), paths.GetReportPath(BasicStatisticsCSV))
	assert.Equal(t, filepath.Join(paths.VisualizationsDir, TopProductsChart), paths.GetVisualizationPath(TopProductsChart))
	assert.Equal(t, filepath.Join(paths.RawDir, "x.csv"), paths.GetRawPath("x.csv"))
	assert.Equal(t, filepath.Join(paths.LogsDir, "a.log"), paths.GetLogPath("a.log"))
	assert.Equal(t, "/var/log/a.log", paths.GetLogPath("/var/log/a.log"))

	ts := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, filepath.Join(paths.CleanedDir, "combined_sales_data_20240309_140507.csv"), paths.GetCombinedPath(ts))
}

func TestPaths_EnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths, err := NewPaths(base, Default().Paths)
	require.NoError(t, err)

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.CleanedDir, paths.ReportsDir, paths.VisualizationsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir())
	}

	_, err = os.Stat(paths.RawDir)
	assert.True(t, os.IsNotExist(err), "raw directory is input only")
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
}
