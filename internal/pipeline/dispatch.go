package pipeline

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/resilience"
	"github.com/growthlane/outreach-cli/internal/store"
	"github.com/growthlane/outreach-cli/pkg/heyreach"
)

// Dispatcher delivers finished leads to the durable lead store and the
// outreach campaign. Sinks are independent: one failing for a lead
// never blocks the other, and one lead failing never blocks the next.
type Dispatcher struct {
	leads    leadstore.Store
	campaign heyreach.Client
	dlq      store.Store
	pacer    Pacer

	campaignID string
}

func NewDispatcher(leads leadstore.Store, campaign heyreach.Client, dlq store.Store, pacer Pacer, campaignID string) *Dispatcher {
	return &Dispatcher{
		leads:      leads,
		campaign:   campaign,
		dlq:        dlq,
		pacer:      pacer,
		campaignID: campaignID,
	}
}

// DispatchResult aggregates per-sink outcomes for a batch.
type DispatchResult struct {
	Store    model.SinkCounts
	Campaign model.SinkCounts
}

// Dispatch sends every lead to both sinks. A lead is marked submitted
// when at least one sink accepted it, rejected otherwise.
func (d *Dispatcher) Dispatch(ctx context.Context, runID string, leads []model.Lead) ([]model.Lead, DispatchResult) {
	var res DispatchResult

	for i := range leads {
		accepted := false
		if d.dispatchStore(ctx, runID, &leads[i], &res.Store) {
			accepted = true
		}
		if d.dispatchCampaign(ctx, runID, &leads[i], &res.Campaign) {
			accepted = true
		}
		// Lifecycle advances only on acceptance; a fully failed lead
		// stays enriched and its failures are counted.
		if accepted {
			leads[i].Lifecycle = model.LifecycleSubmitted
		}
	}
	return leads, res
}

func (d *Dispatcher) dispatchStore(ctx context.Context, runID string, lead *model.Lead, counts *model.SinkCounts) bool {
	if d.leads == nil {
		return false
	}
	d.pace(ctx, "store")

	if err := d.leads.Append(ctx, *lead); err != nil {
		counts.Failed++
		d.recordFailure(ctx, runID, "lead_store", lead, err)
		return false
	}
	counts.Success++
	return true
}

func (d *Dispatcher) dispatchCampaign(ctx context.Context, runID string, lead *model.Lead, counts *model.SinkCounts) bool {
	if d.campaign == nil {
		return false
	}
	d.pace(ctx, "campaign")

	outcome, err := d.campaign.AddLead(ctx, heyreach.CampaignLead{
		CampaignID:    d.campaignID,
		FirstName:     lead.FirstName,
		LastName:      lead.LastName,
		Email:         lead.Email,
		Company:       lead.CompanyNameCanonical,
		Title:         lead.Title,
		Website:       lead.CompanyWebsite,
		LinkedInURL:   lead.CompanyLinkedInURL,
		Location:      lead.JobLocation,
		Industry:      lead.CompanyIndustry,
		EmployeeCount: strconv.Itoa(lead.EmployeeCount),
		CustomFields:  campaignCustomFields(lead),
	})
	if err != nil {
		counts.Failed++
		d.recordFailure(ctx, runID, "campaign", lead, err)
		return false
	}

	switch outcome {
	case heyreach.OutcomeAlreadyExists:
		counts.Duplicates++
		return true
	case heyreach.OutcomeRateLimited:
		counts.Failed++
		d.recordFailure(ctx, runID, "campaign", lead,
			resilience.NewTransientError(eris.New("pipeline: campaign rate limited"), 429))
		return false
	default:
		counts.Success++
		return true
	}
}

// campaignCustomFields builds the custom-field map for the campaign
// payload. Empty values are skipped; a nil map keeps the key out of
// the wire payload entirely.
func campaignCustomFields(lead *model.Lead) map[string]string {
	fields := make(map[string]string, 2)
	if lead.Compliment != "" {
		fields["compliment"] = lead.Compliment
	}
	if lead.JobTitle != "" {
		fields["job_title"] = lead.JobTitle
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (d *Dispatcher) pace(ctx context.Context, sink string) {
	if err := d.pacer.Pace(ctx); err != nil {
		zap.L().Warn("dispatch: pacing interrupted",
			zap.String("sink", sink),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) recordFailure(ctx context.Context, runID, sink string, lead *model.Lead, err error) {
	zap.L().Warn("dispatch: sink rejected lead",
		zap.String("sink", sink),
		zap.String("company", lead.CompanyNameCanonical),
		zap.Error(err),
	)
	if d.dlq == nil {
		return
	}

	errType := "permanent"
	if resilience.IsTransient(err) {
		errType = "transient"
	}
	entry := store.DLQEntry{
		RunID:     runID,
		Sink:      sink,
		Company:   lead.CompanyNameCanonical,
		Email:     lead.Email,
		Error:     err.Error(),
		ErrorType: errType,
	}
	if saveErr := d.dlq.SaveDLQEntry(ctx, entry); saveErr != nil {
		zap.L().Error("dispatch: failed to record dlq entry",
			zap.String("sink", sink),
			zap.Error(saveErr),
		)
	}
}
