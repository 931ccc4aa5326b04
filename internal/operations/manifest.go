package operations

import (
	"encoding/json"
	"fmt"
	"time"

	"salesreport/internal/analytics"
)

// ManifestVersion is bumped when the manifest layout changes
const ManifestVersion = 1

// Manifest is the JSON record of one run written next to the reports
type Manifest struct {
	Version    int              `json:"version"`
	RunID      string           `json:"run_id"`
	TraceID    string           `json:"trace_id,omitempty"`
	Command    string           `json:"command"`
	Status     string           `json:"status"`
	Error      string           `json:"error,omitempty"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Duration   string           `json:"duration,omitempty"`
	Steps      []StepRecord     `json:"steps"`
	Sources    []SourceResult   `json:"sources"`
	Artifacts  []ArtifactRecord `json:"artifacts"`
	Skipped    []SkippedReport  `json:"skipped_reports,omitempty"`
	MergedRows *int             `json:"merged_rows,omitempty"`
}

// StepRecord is the manifest view of a StepState
type StepRecord struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Status     string                 `json:"status"`
	StartedAt  *time.Time             `json:"started_at,omitempty"`
	FinishedAt *time.Time             `json:"finished_at,omitempty"`
	Duration   string                 `json:"duration,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// SkippedReport is a report that could not be computed
type SkippedReport struct {
	Report  string   `json:"report"`
	Reason  string   `json:"reason"`
	Missing []string `json:"missing_columns,omitempty"`
}

// BuildManifest snapshots run
func BuildManifest(run *RunState) *Manifest {
	run.mu.RLock()
	defer run.mu.RUnlock()

	m := &Manifest{
		Version:    ManifestVersion,
		RunID:      run.ID,
		TraceID:    run.TraceID,
		Command:    string(run.Command),
		Status:     string(run.Status),
		StartedAt:  run.StartTime,
		FinishedAt: run.EndTime,
		Steps:      make([]StepRecord, 0, len(run.Steps)),
		Sources:    append([]SourceResult{}, run.Results...),
		Artifacts:  append([]ArtifactRecord{}, run.Artifacts...),
	}
	if run.Error != nil {
		m.Error = run.Error.Error()
	}
	if run.EndTime != nil {
		m.Duration = run.EndTime.Sub(run.StartTime).String()
	}
	if run.Merged != nil {
		n := run.Merged.Len()
		m.MergedRows = &n
	}
	if run.Analysis != nil {
		m.Skipped = skippedReports(run.Analysis.Skipped)
	}

	for _, s := range run.Steps {
		m.Steps = append(m.Steps, stepRecord(s))
	}

	return m
}

func stepRecord(s *StepState) StepRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec := StepRecord{
		ID:         s.ID,
		Name:       s.Name,
		Status:     string(s.Status),
		StartedAt:  s.StartTime,
		FinishedAt: s.EndTime,
		Message:    s.Message,
	}
	if s.StartTime != nil && s.EndTime != nil {
		rec.Duration = s.EndTime.Sub(*s.StartTime).String()
	}
	if len(s.Metadata) > 0 {
		rec.Metadata = make(map[string]interface{}, len(s.Metadata))
		for k, v := range s.Metadata {
			rec.Metadata[k] = v
		}
	}
	return rec
}

func skippedReports(skips []analytics.Skip) []SkippedReport {
	out := make([]SkippedReport, 0, len(skips))
	for _, s := range skips {
		out = append(out, SkippedReport{Report: s.Report, Reason: s.Reason, Missing: s.Missing})
	}
	return out
}

// Marshal renders the manifest as indented JSON
func (m *Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}
