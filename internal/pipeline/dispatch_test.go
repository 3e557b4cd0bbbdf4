package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/store"
	"github.com/growthlane/outreach-cli/pkg/heyreach"
)

func TestDispatch_BothSinksAccept(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("Append", mock.Anything, mock.Anything).Return(nil)

	hr := &mockHeyReachClient{}
	hr.On("AddLead", mock.Anything, mock.Anything).Return(heyreach.OutcomeCreated, nil)

	d := NewDispatcher(ls, hr, nil, NopPacer{}, "42")
	leads, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{FirstName: "John", CompanyNameCanonical: "Acme", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Store.Success)
	assert.Equal(t, 1, res.Campaign.Success)
	assert.Equal(t, model.LifecycleSubmitted, leads[0].Lifecycle)
}

func TestDispatch_AlreadyExistsCountsAsDuplicate(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("Append", mock.Anything, mock.Anything).Return(nil)

	hr := &mockHeyReachClient{}
	hr.On("AddLead", mock.Anything, mock.Anything).Return(heyreach.OutcomeAlreadyExists, nil)

	d := NewDispatcher(ls, hr, nil, NopPacer{}, "42")
	leads, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Acme", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Campaign.Duplicates)
	assert.Zero(t, res.Campaign.Failed)
	assert.Equal(t, model.LifecycleSubmitted, leads[0].Lifecycle)
}

func TestDispatch_CampaignCustomFieldsOmitEmpty(t *testing.T) {
	hr := &mockHeyReachClient{}
	hr.On("AddLead", mock.Anything, mock.MatchedBy(func(l heyreach.CampaignLead) bool {
		_, hasJob := l.CustomFields["job_title"]
		return l.CustomFields["compliment"] == "Great trajectory." && !hasJob
	})).Return(heyreach.OutcomeCreated, nil)
	hr.On("AddLead", mock.Anything, mock.MatchedBy(func(l heyreach.CampaignLead) bool {
		return l.CustomFields == nil
	})).Return(heyreach.OutcomeCreated, nil)

	d := NewDispatcher(nil, hr, nil, NopPacer{}, "42")
	_, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Acme", Compliment: "Great trajectory.", Lifecycle: model.LifecycleEnriched},
		{CompanyNameCanonical: "Globex", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 2, res.Campaign.Success)
	hr.AssertExpectations(t)
}

func TestDispatch_SinksIndependent(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("Append", mock.Anything, mock.Anything).Return(eris.New("store down"))

	hr := &mockHeyReachClient{}
	hr.On("AddLead", mock.Anything, mock.Anything).Return(heyreach.OutcomeCreated, nil)

	rs := lenientRunStore()

	d := NewDispatcher(ls, hr, rs, NopPacer{}, "42")
	leads, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Acme", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Store.Failed)
	assert.Equal(t, 1, res.Campaign.Success)
	// campaign accepted, so the lead still counts as submitted
	assert.Equal(t, model.LifecycleSubmitted, leads[0].Lifecycle)
}

func TestDispatch_PerLeadIsolation(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("Append", mock.Anything, mock.MatchedBy(func(l model.Lead) bool {
		return l.CompanyNameCanonical == "Bad Co"
	})).Return(eris.New("rejected"))
	ls.On("Append", mock.Anything, mock.Anything).Return(nil)

	rs := lenientRunStore()

	d := NewDispatcher(ls, nil, rs, NopPacer{}, "")
	leads, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Bad Co", Lifecycle: model.LifecycleEnriched},
		{CompanyNameCanonical: "Good Co", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Store.Failed)
	assert.Equal(t, 1, res.Store.Success)
	// failed lead keeps its pre-dispatch state
	assert.Equal(t, model.LifecycleEnriched, leads[0].Lifecycle)
	assert.Equal(t, model.LifecycleSubmitted, leads[1].Lifecycle)
}

func TestDispatch_RecordsDLQEntry(t *testing.T) {
	ls := &mockLeadStore{}
	ls.On("Append", mock.Anything, mock.Anything).Return(eris.New("store down"))

	rs := &mockRunStore{}
	rs.On("SaveDLQEntry", mock.Anything, mock.MatchedBy(func(e store.DLQEntry) bool {
		return e.RunID == "run-1" && e.Sink == "lead_store" && e.Company == "Acme"
	})).Return(nil)

	d := NewDispatcher(ls, nil, rs, NopPacer{}, "")
	_, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Acme", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Store.Failed)
	rs.AssertExpectations(t)
}

func TestDispatch_RateLimitedCampaignIsTransientFailure(t *testing.T) {
	hr := &mockHeyReachClient{}
	hr.On("AddLead", mock.Anything, mock.Anything).Return(heyreach.OutcomeRateLimited, nil)

	rs := &mockRunStore{}
	rs.On("SaveDLQEntry", mock.Anything, mock.MatchedBy(func(e store.DLQEntry) bool {
		return e.Sink == "campaign" && e.ErrorType == "transient"
	})).Return(nil)

	d := NewDispatcher(nil, hr, rs, NopPacer{}, "42")
	_, res := d.Dispatch(context.Background(), "run-1", []model.Lead{
		{CompanyNameCanonical: "Acme", Lifecycle: model.LifecycleEnriched},
	})

	assert.Equal(t, 1, res.Campaign.Failed)
	rs.AssertExpectations(t)
}
