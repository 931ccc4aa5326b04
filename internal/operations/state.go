package operations

import (
	"sync"
	"time"

	"salesreport/internal/analytics"
	"salesreport/internal/files"
	"salesreport/pkg/contracts/domain"
)

// RunStatusValue represents the overall run status
type RunStatusValue string

const (
	RunStatusPending   RunStatusValue = "pending"
	RunStatusRunning   RunStatusValue = "running"
	RunStatusCompleted RunStatusValue = "completed"
	RunStatusFailed    RunStatusValue = "failed"
)

// SourceResult is the outcome of processing one raw source
type SourceResult struct {
	Source      string               `json:"source"`
	Path        string               `json:"path"`
	Status      string               `json:"status"`
	Error       string               `json:"error,omitempty"`
	SkippedRows int                  `json:"skipped_lines,omitempty"`
	Stats       domain.CleaningStats `json:"stats"`
	CleanedPath string               `json:"cleaned_path,omitempty"`
}

// Source statuses
const (
	SourceStatusCleaned = "cleaned"
	SourceStatusFailed  = "failed"
)

// ArtifactRecord describes one file a run produced
type ArtifactRecord struct {
	Kind   string `json:"kind"`
	Report string `json:"report,omitempty"`
	Path   string `json:"path"`
	Rows   int    `json:"rows,omitempty"`
}

// RunState represents the complete state of a pipeline run. Steps hand the
// datasets to each other through it.
type RunState struct {
	mu sync.RWMutex

	ID        string
	TraceID   string
	Command   Command
	Status    RunStatusValue
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	// Step states in execution order
	Steps []*StepState

	Sources   []files.FileInfo
	Results   []SourceResult
	Cleaned   []*domain.Dataset
	Merged    *domain.Dataset
	Analysis  *analytics.Result
	Artifacts []ArtifactRecord
}

// NewRunState creates a new run state
func NewRunState(id string, command Command) *RunState {
	return &RunState{
		ID:        id,
		Command:   command,
		Status:    RunStatusPending,
		StartTime: time.Now(),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// GetStep returns the state of a specific Step
func (r *RunState) GetStep(id string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// AddStep registers the state for a Step
func (r *RunState) AddStep(state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps = append(r.Steps, state)
}

// AddArtifact records a produced file
func (r *RunState) AddArtifact(a ArtifactRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Artifacts = append(r.Artifacts, a)
}

// ArtifactsOf returns the recorded artifacts of one kind
func (r *RunState) ArtifactsOf(kind string) []ArtifactRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []ArtifactRecord
	for _, a := range r.Artifacts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
