package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/leadstore"
	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/pipeline"
	"github.com/growthlane/outreach-cli/internal/store"
	anthropicpkg "github.com/growthlane/outreach-cli/pkg/anthropic"
	"github.com/growthlane/outreach-cli/pkg/apify"
	"github.com/growthlane/outreach-cli/pkg/heyreach"
	"github.com/growthlane/outreach-cli/pkg/notion"
	"github.com/growthlane/outreach-cli/pkg/prospeo"
)

// pipelineEnv holds the initialized store, clients, and pipeline used
// by the run/import/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
	Leads    leadstore.Store
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "outreach.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initPipeline sets up the store and all API clients, then builds the
// Pipeline around the given posting source. Callers should defer
// env.Close().
func initPipeline(ctx context.Context, source pipeline.PostingSource) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	if source == nil {
		if cfg.Apify.Key == "" {
			_ = st.Close()
			return nil, eris.New("apify API key is required (OUTREACH_APIFY_KEY)")
		}
		source = pipeline.NewApifySource(apify.NewClient(cfg.Apify.Key,
			apify.WithBaseURL(cfg.Apify.BaseURL),
			apify.WithActorID(cfg.Apify.ActorID),
		))
	}

	var leads leadstore.Store
	if cfg.Notion.Token != "" && cfg.Notion.LeadDB != "" {
		leads = leadstore.NewNotionStore(notion.NewClient(cfg.Notion.Token), cfg.Notion.LeadDB)
	} else {
		zap.L().Warn("notion lead store not configured, dedup and durable sink disabled")
	}

	var campaign heyreach.Client
	if cfg.HeyReach.Key != "" {
		campaign = heyreach.NewClient(cfg.HeyReach.Key, heyreach.WithBaseURL(cfg.HeyReach.BaseURL))
	} else {
		zap.L().Warn("heyreach not configured, campaign sink disabled")
	}

	emailStage := pipeline.NewEmailEnricher(
		prospeo.NewClient(cfg.Prospeo.Key, prospeo.WithBaseURL(cfg.Prospeo.BaseURL)),
	)

	fallbacks, err := pipeline.LoadFallbacks(cfg.Pipeline.FallbackFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	var gen anthropicpkg.Client
	if cfg.Anthropic.Key != "" {
		gen = anthropicpkg.NewClient(cfg.Anthropic.Key)
	}
	complimentStage := pipeline.NewComplimentEnricher(gen, pipeline.GenerationSettings{
		Model:       cfg.Anthropic.Model,
		MaxTokens:   cfg.Anthropic.MaxTokens,
		Temperature: cfg.Anthropic.Temperature,
	}, fallbacks)

	p := pipeline.New(
		cfg,
		st,
		source,
		emailStage,
		complimentStage,
		leads,
		campaign,
		pipeline.NewPacer(cfg.Pipeline.CallSpacing),
	)

	return &pipelineEnv{Store: st, Pipeline: p, Leads: leads}, nil
}

// searchFromConfig maps the configured search onto the pipeline model.
func searchFromConfig() model.SearchConfig {
	return model.SearchConfig{
		Keywords:  cfg.Search.CleanKeywords(),
		TimeRange: cfg.Search.TimeRange,
		GeoID:     cfg.Search.GeoID,
		MaxLeads:  cfg.Search.MaxLeads,
	}
}
