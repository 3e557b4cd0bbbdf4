package model

import "time"

// RunStatus represents the current state of a pipeline run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusScraping    RunStatus = "scraping"
	RunStatusNormalizing RunStatus = "normalizing"
	RunStatusBatchDedup  RunStatus = "batch_dedup"
	RunStatusEmail       RunStatus = "email_enrichment"
	RunStatusCompliment  RunStatus = "compliment_enrichment"
	RunStatusStoreDedup  RunStatus = "store_dedup"
	RunStatusDispatch    RunStatus = "dispatch"
	RunStatusDone        RunStatus = "done"
	RunStatusFailed      RunStatus = "failed"
)

// Run represents a single pipeline run.
type Run struct {
	ID        string       `json:"id"`
	Search    SearchConfig `json:"search"`
	Status    RunStatus    `json:"status"`
	Summary   *RunSummary  `json:"summary,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// StageStatus represents the outcome of a single pipeline stage.
type StageStatus string

const (
	StageStatusRunning  StageStatus = "running"
	StageStatusComplete StageStatus = "complete"
	StageStatusFailed   StageStatus = "failed"
	StageStatusSkipped  StageStatus = "skipped"
)

// StageResult holds the outcome of one pipeline stage.
type StageResult struct {
	Name     string         `json:"name"`
	Status   StageStatus    `json:"status"`
	Duration int64          `json:"duration_ms"`
	In       int            `json:"in"`
	Out      int            `json:"out"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// SinkCounts aggregates per-sink dispatch outcomes.
type SinkCounts struct {
	Success    int `json:"success"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
}

// RunSummary is the final outcome of a run. Every absorbed failure is
// reflected here; nothing is reported only in a log line.
type RunSummary struct {
	Scraped       int           `json:"scraped"`
	Normalized    int           `json:"normalized"`
	Rejected      int           `json:"rejected"`
	BatchDupes    int           `json:"batch_duplicates"`
	BatchExcluded int           `json:"batch_excluded"`
	StoreDupes    int           `json:"store_duplicates"`
	EmailsFound   int           `json:"emails_found"`
	EmailsMissed  int           `json:"emails_missed"`
	Compliments   int           `json:"compliments_generated"`
	Fallbacks     int           `json:"compliments_fallback"`
	DedupDegraded bool          `json:"dedup_degraded"`
	Store         SinkCounts    `json:"store_sink"`
	Campaign      SinkCounts    `json:"campaign_sink"`
	Stages        []StageResult `json:"stages"`
	Error         string        `json:"error,omitempty"`
}

// Dispatched returns how many leads reached at least one sink.
func (s *RunSummary) Dispatched() int {
	n := s.Store.Success
	if s.Campaign.Success+s.Campaign.Duplicates > n {
		n = s.Campaign.Success + s.Campaign.Duplicates
	}
	return n
}
