package pipeline

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/pkg/prospeo"
)

// EmailEnricher finds work emails through the email finder API.
type EmailEnricher struct {
	finder prospeo.Client
}

func NewEmailEnricher(finder prospeo.Client) *EmailEnricher {
	return &EmailEnricher{finder: finder}
}

func (e *EmailEnricher) Name() string { return "email_enrichment" }

// Enrich looks up an email for the lead. Leads without both name
// parts or without a domain are marked not_found without a lookup.
// Malformed addresses from the provider are also treated as not found.
func (e *EmailEnricher) Enrich(ctx context.Context, lead *model.Lead) error {
	if lead.FirstName == "" || lead.LastName == "" || lead.CompanyDomain == "" {
		lead.EmailStatus = model.EmailNotFound
		return nil
	}

	res, err := e.finder.FindEmail(ctx, prospeo.FindRequest{
		FirstName: lead.FirstName,
		LastName:  lead.LastName,
		Domain:    lead.CompanyDomain,
	})
	if err != nil {
		lead.EmailStatus = model.EmailError
		return eris.Wrap(err, "pipeline: email lookup")
	}

	switch res.Outcome {
	case prospeo.OutcomeFound:
		if !ValidEmail(res.Email) {
			lead.EmailStatus = model.EmailNotFound
			return nil
		}
		lead.Email = res.Email
		lead.EmailConfidence = res.Confidence
		lead.EmailStatus = model.EmailFound
	case prospeo.OutcomeRateLimited:
		lead.EmailStatus = model.EmailRateLimited
	default:
		lead.EmailStatus = model.EmailNotFound
	}
	return nil
}
