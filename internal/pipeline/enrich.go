package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
)

// Enricher mutates a single lead in place. Implementations record
// failure in the lead's status fields and return an error only for
// logging; an error never removes the lead from the batch.
type Enricher interface {
	Name() string
	Enrich(ctx context.Context, lead *model.Lead) error
}

// RunStage applies an enricher to every lead, pacing before each one.
// Leads always advance; a failing record is logged and kept.
func RunStage(ctx context.Context, e Enricher, pacer Pacer, leads []model.Lead) []model.Lead {
	for i := range leads {
		if err := pacer.Pace(ctx); err != nil {
			zap.L().Warn("enrich: pacing interrupted",
				zap.String("stage", e.Name()),
				zap.Error(err),
			)
		}
		if err := e.Enrich(ctx, &leads[i]); err != nil {
			zap.L().Warn("enrich: record failed",
				zap.String("stage", e.Name()),
				zap.String("company", leads[i].CompanyNameCanonical),
				zap.Error(err),
			)
		}
		leads[i].Lifecycle = model.LifecycleEnriched
	}
	return leads
}
