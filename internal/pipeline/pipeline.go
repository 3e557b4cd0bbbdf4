// Package pipeline implements the lead generation flow: scrape or
// import postings, normalize them into leads, deduplicate, enrich
// with emails and compliments, and dispatch to the outreach sinks.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/config"
	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/store"
	"github.com/growthlane/outreach-cli/pkg/heyreach"
)

// Pipeline orchestrates one run from posting fetch to dispatch.
type Pipeline struct {
	cfg        *config.Config
	runs       store.Store
	source     PostingSource
	email      Enricher
	compliment Enricher
	leads      leadstore.Store
	campaign   heyreach.Client
	pacer      Pacer
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	runs store.Store,
	source PostingSource,
	email Enricher,
	compliment Enricher,
	leads leadstore.Store,
	campaign heyreach.Client,
	pacer Pacer,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		runs:       runs,
		source:     source,
		email:      email,
		compliment: compliment,
		leads:      leads,
		campaign:   campaign,
		pacer:      pacer,
	}
}

// Run executes the full pipeline for one search. Only a posting source
// failure fails the run; everything downstream degrades per record and
// is reported in the summary.
func (p *Pipeline) Run(ctx context.Context, search model.SearchConfig) (*model.Run, error) {
	run, err := p.runs.CreateRun(ctx, search)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	return p.Resume(ctx, run)
}

// Resume executes the pipeline for an already-created run record.
func (p *Pipeline) Resume(ctx context.Context, run *model.Run) (*model.Run, error) {
	log := zap.L().With(zap.String("run_id", run.ID))
	log.Info("pipeline: starting run",
		zap.Strings("keywords", run.Search.Keywords),
		zap.Int("max_leads", run.Search.MaxLeads),
	)

	summary := &model.RunSummary{}

	setStatus := func(status model.RunStatus) {
		if err := p.runs.UpdateRunStatus(ctx, run.ID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
		run.Status = status
	}

	trackStage := func(name string, in int, fn func() (int, error)) error {
		stageID, stageErr := p.runs.CreateStage(ctx, run.ID, name)
		if stageErr != nil {
			log.Warn("pipeline: failed to create stage", zap.String("stage", name), zap.Error(stageErr))
		}

		start := time.Now()
		out, fnErr := fn()
		result := &model.StageResult{
			Name:     name,
			Duration: time.Since(start).Milliseconds(),
			In:       in,
			Out:      out,
		}

		if fnErr != nil {
			result.Status = model.StageStatusFailed
			result.Error = fnErr.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", result.Duration),
				zap.Error(fnErr),
			)
		} else {
			result.Status = model.StageStatusComplete
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.Int64("duration_ms", result.Duration),
				zap.Int("in", in),
				zap.Int("out", out),
			)
		}

		if stageID != "" {
			if err := p.runs.CompleteStage(ctx, stageID, result); err != nil {
				log.Warn("pipeline: failed to complete stage", zap.String("stage", name), zap.Error(err))
			}
		}
		summary.Stages = append(summary.Stages, *result)
		return fnErr
	}

	finish := func() {
		if err := p.runs.UpdateRunSummary(ctx, run.ID, summary); err != nil {
			log.Warn("pipeline: failed to save summary", zap.Error(err))
		}
		run.Summary = summary
		if summary.Error != "" {
			run.Status = model.RunStatusFailed
		} else {
			run.Status = model.RunStatusDone
		}
	}

	// Scrape. The one hard failure point: no postings means nothing
	// downstream can run.
	setStatus(model.RunStatusScraping)
	var postings []model.RawPosting
	fetchErr := trackStage("scrape", 0, func() (int, error) {
		var err error
		postings, err = p.source.FetchPostings(ctx, run.Search)
		return len(postings), err
	})
	if fetchErr != nil {
		summary.Error = fetchErr.Error()
		finish()
		return run, eris.Wrap(fetchErr, "pipeline: fetch postings")
	}
	summary.Scraped = len(postings)

	// Normalize.
	setStatus(model.RunStatusNormalizing)
	normalizer := &Normalizer{MinEmployeeCount: p.cfg.Pipeline.MinEmployeeCount}
	var leads []model.Lead
	_ = trackStage("normalize", len(postings), func() (int, error) {
		var stats NormalizeStats
		leads, stats = normalizer.Normalize(postings)
		summary.Normalized = stats.Out
		summary.Rejected = stats.NoCount + stats.BelowMin + stats.MissingFields
		return stats.Out, nil
	})

	// Batch dedupe.
	setStatus(model.RunStatusBatchDedup)
	_ = trackStage("batch_dedup", len(leads), func() (int, error) {
		var dupes, excluded int
		leads, dupes, excluded = DedupeBatch(leads)
		summary.BatchDupes = dupes
		summary.BatchExcluded = excluded
		return len(leads), nil
	})

	// Email enrichment.
	setStatus(model.RunStatusEmail)
	_ = trackStage("email_enrichment", len(leads), func() (int, error) {
		leads = RunStage(ctx, p.email, p.pacer, leads)
		for _, l := range leads {
			if l.EmailStatus == model.EmailFound {
				summary.EmailsFound++
			} else {
				summary.EmailsMissed++
			}
		}
		return len(leads), nil
	})

	// Compliment enrichment.
	setStatus(model.RunStatusCompliment)
	_ = trackStage("compliment_enrichment", len(leads), func() (int, error) {
		leads = RunStage(ctx, p.compliment, p.pacer, leads)
		for _, l := range leads {
			switch l.ComplimentStatus {
			case model.ComplimentAIGenerated:
				summary.Compliments++
			case model.ComplimentFallback:
				summary.Fallbacks++
			}
		}
		return len(leads), nil
	})

	// Store dedupe. The identity set is built once here, after email
	// enrichment, so the composite key can use found emails. Survivors
	// register in memory; two new leads with the same identity within
	// one run reconcile first-wins.
	setStatus(model.RunStatusStoreDedup)
	deduper := NewStoreDeduper(p.leads)
	_ = trackStage("store_dedup", len(leads), func() (int, error) {
		summary.DedupDegraded = deduper.Load(ctx)
		var dupes int
		leads, dupes = deduper.Filter(leads)
		summary.StoreDupes = dupes
		return len(leads), nil
	})

	// Dispatch.
	setStatus(model.RunStatusDispatch)
	dispatcher := NewDispatcher(p.leads, p.campaign, p.runs, p.pacer, p.cfg.HeyReach.CampaignID)
	_ = trackStage("dispatch", len(leads), func() (int, error) {
		var res DispatchResult
		leads, res = dispatcher.Dispatch(ctx, run.ID, leads)
		summary.Store = res.Store
		summary.Campaign = res.Campaign
		return summary.Dispatched(), nil
	})

	finish()
	log.Info("pipeline: run complete",
		zap.Int("scraped", summary.Scraped),
		zap.Int("normalized", summary.Normalized),
		zap.Int("dispatched", summary.Dispatched()),
		zap.Int("emails_found", summary.EmailsFound),
		zap.Int("compliments", summary.Compliments+summary.Fallbacks),
	)
	return run, nil
}
