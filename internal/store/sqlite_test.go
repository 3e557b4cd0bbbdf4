package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growthlane/outreach-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	search := model.SearchConfig{Keywords: []string{"golang"}, MaxLeads: 50}
	run, err := st.CreateRun(ctx, search)
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, search.Keywords, got.Search.Keywords)
	assert.Equal(t, 50, got.Search.MaxLeads)
	assert.Nil(t, got.Summary)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusScraping))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusScraping, got.Status)
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "missing", model.RunStatusDone)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunSummary_SetsTerminalStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)

	summary := &model.RunSummary{Scraped: 10, Normalized: 8, EmailsFound: 5}
	require.NoError(t, st.UpdateRunSummary(ctx, run.ID, summary))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusDone, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 10, got.Summary.Scraped)
	assert.Equal(t, 5, got.Summary.EmailsFound)
}

func TestSQLite_UpdateRunSummary_ErrorMeansFailed(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)

	summary := &model.RunSummary{Error: "apify: run actor timed out"}
	require.NoError(t, st.UpdateRunSummary(ctx, run.ID, summary))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Equal(t, "apify: run actor timed out", got.Summary.Error)
}

func TestSQLite_ListRuns_FiltersByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	a, err := st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, a.ID, model.RunStatusDone))

	done, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusDone})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, a.ID, done[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLite_ListRuns_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.CreateRun(ctx, model.SearchConfig{})
		require.NoError(t, err)
	}

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLite_Stages(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, model.SearchConfig{})
	require.NoError(t, err)

	stageID, err := st.CreateStage(ctx, run.ID, "normalize")
	require.NoError(t, err)
	require.NotEmpty(t, stageID)

	err = st.CompleteStage(ctx, stageID, &model.StageResult{
		Name:   "normalize",
		Status: model.StageStatusComplete,
		In:     10,
		Out:    8,
	})
	require.NoError(t, err)
}

func TestSQLite_CompleteStage_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.CompleteStage(context.Background(), "missing-stage", &model.StageResult{
		Status: model.StageStatusComplete,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_DLQ_SaveAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	entries := []DLQEntry{
		{RunID: "run-1", Sink: "campaign", Company: "Acme", Email: "john@acme.com", Error: "rate limited", ErrorType: "transient"},
		{RunID: "run-1", Sink: "store", Company: "Beta", Error: "notion unreachable", ErrorType: "transient"},
		{RunID: "run-2", Sink: "campaign", Company: "Gamma", Error: "invalid payload", ErrorType: "permanent"},
	}
	for _, e := range entries {
		require.NoError(t, st.SaveDLQEntry(ctx, e))
	}

	byRun, err := st.ListDLQ(ctx, DLQFilter{RunID: "run-1"})
	require.NoError(t, err)
	assert.Len(t, byRun, 2)

	bySink, err := st.ListDLQ(ctx, DLQFilter{Sink: "campaign"})
	require.NoError(t, err)
	assert.Len(t, bySink, 2)

	both, err := st.ListDLQ(ctx, DLQFilter{RunID: "run-1", Sink: "campaign"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Acme", both[0].Company)
	assert.Equal(t, "john@acme.com", both[0].Email)
	assert.Equal(t, "transient", both[0].ErrorType)
	assert.NotEmpty(t, both[0].ID)
	assert.False(t, both[0].CreatedAt.IsZero())
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}
