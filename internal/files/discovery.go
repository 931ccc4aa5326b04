package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"salesreport/internal/errors"
)

// lockFilePrefix marks office lock files such as ~$online_retail.xlsx
const lockFilePrefix = "~$"

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
	logger   *slog.Logger
}

// NewDiscovery creates a new file discovery instance. Relative directories
// are resolved against basePath.
func NewDiscovery(basePath string, logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{basePath: basePath, logger: logger}
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// FindSources returns the files in dir matching any of patterns. Results
// follow pattern order and then name, and a file matched by several patterns
// is returned once. Lock files are skipped.
func (d *Discovery) FindSources(dir string, patterns []string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, errors.NewNotFoundError("source directory "+fullPath, err)
	}
	if !info.IsDir() {
		return nil, errors.NewNotFoundError("source directory "+fullPath, fmt.Errorf("not a directory"))
	}

	seen := make(map[string]bool)
	var files []FileInfo
	for _, pattern := range patterns {
		matches, err := d.FindFilesByPattern(fullPath, pattern)
		if err != nil {
			return nil, err
		}
		for _, f := range matches {
			if seen[f.Path] || strings.HasPrefix(f.Name, lockFilePrefix) {
				continue
			}
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	d.logger.Info("Source discovery completed",
		slog.String("dir", fullPath),
		slog.Any("patterns", patterns),
		slog.Int("file_count", len(files)))

	return files, nil
}

// FindFilesByPattern finds files matching a glob pattern, sorted by name
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)
	searchPattern := filepath.Join(fullPath, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}
	sort.Strings(matches)

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// FindLatest returns the most recently modified file in dir matching pattern.
// Ties on modification time go to the greater name, so timestamped names
// order naturally.
func (d *Discovery) FindLatest(dir, pattern string) (FileInfo, error) {
	files, err := d.FindFilesByPattern(dir, pattern)
	if err != nil {
		return FileInfo{}, err
	}

	latest, ok := GetLatestFile(files)
	if !ok {
		return FileInfo{}, errors.NewNotFoundError(
			fmt.Sprintf("file matching %s in %s", pattern, d.resolve(dir)), nil)
	}
	return latest, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) ||
			(file.ModTime.Equal(latest.ModTime) && file.Name > latest.Name) {
			latest = file
		}
	}

	return latest, true
}
