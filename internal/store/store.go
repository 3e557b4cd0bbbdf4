package store

import (
	"context"
	"time"

	"github.com/growthlane/outreach-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// DLQEntry records a lead a sink refused, for later inspection or
// manual replay.
type DLQEntry struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Sink      string    `json:"sink"`
	Company   string    `json:"company"`
	Email     string    `json:"email,omitempty"`
	Error     string    `json:"error"`
	ErrorType string    `json:"error_type"`
	CreatedAt time.Time `json:"created_at"`
}

// DLQFilter specifies criteria for listing dead-letter entries.
type DLQFilter struct {
	RunID string `json:"run_id,omitempty"`
	Sink  string `json:"sink,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for pipeline runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, search model.SearchConfig) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunSummary(ctx context.Context, runID string, summary *model.RunSummary) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Stages
	CreateStage(ctx context.Context, runID string, name string) (string, error)
	CompleteStage(ctx context.Context, stageID string, result *model.StageResult) error

	// Dead letters
	SaveDLQEntry(ctx context.Context, entry DLQEntry) error
	ListDLQ(ctx context.Context, filter DLQFilter) ([]DLQEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// finalStatus maps a summary to the terminal run status.
func finalStatus(summary *model.RunSummary) model.RunStatus {
	if summary != nil && summary.Error != "" {
		return model.RunStatusFailed
	}
	return model.RunStatusDone
}
