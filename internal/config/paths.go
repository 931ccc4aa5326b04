package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains all the resolved application paths.
// It is built from an explicit base directory and passed to every component
// that touches the file system; nothing resolves paths on its own.
type Paths struct {
	BaseDir           string
	RawDir            string
	CleanedDir        string
	ReportsDir        string
	VisualizationsDir string
	LogsDir           string
}

// NewPaths resolves the configured locations against baseDir.
// An empty baseDir falls back to cfg.BaseDir and then to the working directory.
func NewPaths(baseDir string, cfg PathsConfig) (*Paths, error) {
	if baseDir == "" {
		baseDir = cfg.BaseDir
	}
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", baseDir, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(abs, p)
	}

	return &Paths{
		BaseDir:           abs,
		RawDir:            resolve(cfg.RawDir),
		CleanedDir:        resolve(cfg.CleanedDir),
		ReportsDir:        resolve(cfg.ReportsDir),
		VisualizationsDir: resolve(cfg.VisualizationsDir),
		LogsDir:           resolve(cfg.LogsDir),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist.
// The raw directory is input only and is never created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.CleanedDir,
		p.ReportsDir,
		p.VisualizationsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetRawPath returns the path for a raw input file
func (p *Paths) GetRawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// GetCleanedPath returns the path for a cleaned or combined dataset
func (p *Paths) GetCleanedPath(filename string) string {
	return filepath.Join(p.CleanedDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetVisualizationPath returns the path for a chart image
func (p *Paths) GetVisualizationPath(filename string) string {
	return filepath.Join(p.VisualizationsDir, filename)
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// GetCleanedSourcePath returns <cleaned>/<source>_clean.csv
func (p *Paths) GetCleanedSourcePath(source string) string {
	return p.GetCleanedPath(source + CleanedFileSuffix)
}

// GetCombinedPath returns the timestamped combined dataset path for t
func (p *Paths) GetCombinedPath(t time.Time) string {
	return p.GetCleanedPath(CombinedFilePrefix + t.Format(CombinedTimestampFmt) + ".csv")
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved locations
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("raw", p.RawDir),
			slog.String("cleaned", p.CleanedDir),
			slog.String("reports", p.ReportsDir),
			slog.String("visualizations", p.VisualizationsDir),
			slog.String("logs", p.LogsDir),
		))
}
