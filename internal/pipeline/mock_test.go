package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/store"
	"github.com/growthlane/outreach-cli/pkg/anthropic"
	"github.com/growthlane/outreach-cli/pkg/apify"
	"github.com/growthlane/outreach-cli/pkg/heyreach"
	"github.com/growthlane/outreach-cli/pkg/prospeo"
)

// --- Apify Mock ---

type mockApifyClient struct {
	mock.Mock
}

func (m *mockApifyClient) RunActor(ctx context.Context, req apify.RunRequest) ([]map[string]any, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

// --- Prospeo Mock ---

type mockProspeoClient struct {
	mock.Mock
}

func (m *mockProspeoClient) FindEmail(ctx context.Context, req prospeo.FindRequest) (*prospeo.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*prospeo.Result), args.Error(1)
}

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// --- HeyReach Mock ---

type mockHeyReachClient struct {
	mock.Mock
}

func (m *mockHeyReachClient) AddLead(ctx context.Context, lead heyreach.CampaignLead) (heyreach.Outcome, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(heyreach.Outcome), args.Error(1)
}

// --- Lead Store Mock ---

type mockLeadStore struct {
	mock.Mock
}

func (m *mockLeadStore) ReadExisting(ctx context.Context) ([]model.ExistingLead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ExistingLead), args.Error(1)
}

func (m *mockLeadStore) Append(ctx context.Context, lead model.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// --- Run Store Mock ---

type mockRunStore struct {
	mock.Mock
}

func (m *mockRunStore) CreateRun(ctx context.Context, search model.SearchConfig) (*model.Run, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	args := m.Called(ctx, runID, status)
	return args.Error(0)
}

func (m *mockRunStore) UpdateRunSummary(ctx context.Context, runID string, summary *model.RunSummary) error {
	args := m.Called(ctx, runID, summary)
	return args.Error(0)
}

func (m *mockRunStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Run), args.Error(1)
}

func (m *mockRunStore) ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Run), args.Error(1)
}

func (m *mockRunStore) CreateStage(ctx context.Context, runID string, name string) (string, error) {
	args := m.Called(ctx, runID, name)
	return args.String(0), args.Error(1)
}

func (m *mockRunStore) CompleteStage(ctx context.Context, stageID string, result *model.StageResult) error {
	args := m.Called(ctx, stageID, result)
	return args.Error(0)
}

func (m *mockRunStore) SaveDLQEntry(ctx context.Context, entry store.DLQEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockRunStore) ListDLQ(ctx context.Context, filter store.DLQFilter) ([]store.DLQEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.DLQEntry), args.Error(1)
}

func (m *mockRunStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// lenientRunStore accepts all bookkeeping calls so orchestration tests
// can focus on stage behavior.
func lenientRunStore() *mockRunStore {
	st := &mockRunStore{}
	st.On("UpdateRunStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	st.On("UpdateRunSummary", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	st.On("CreateStage", mock.Anything, mock.Anything, mock.Anything).Return("stage-1", nil).Maybe()
	st.On("CompleteStage", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	st.On("SaveDLQEntry", mock.Anything, mock.Anything).Return(nil).Maybe()
	return st
}
