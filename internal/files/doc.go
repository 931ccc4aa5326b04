// Package files provides file system operations and discovery utilities
// for the sales report pipeline.
//
// Discovery: Finds raw sources by glob pattern and the newest file matching
// a pattern, such as the latest combined dataset.
//
// Manager: Reads and atomically writes files addressed relative to the
// pipeline directories ("reports/run_manifest.json", "cleaned/...").
//
// Example usage:
//
//	discovery := files.NewDiscovery(paths.BaseDir, logger)
//	sources, err := discovery.FindSources(paths.RawDir, cfg.Sources.Patterns)
package files
