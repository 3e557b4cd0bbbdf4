// Package leadstore persists outreach-ready leads in a Notion database
// and exposes the projection used for cross-run deduplication.
package leadstore

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/pkg/notion"
)

// Store is the durable cross-run lead record.
type Store interface {
	// ReadExisting returns the email/company projection of every
	// previously persisted lead.
	ReadExisting(ctx context.Context) ([]model.ExistingLead, error)
	// Append persists one lead as a full row.
	Append(ctx context.Context, lead model.Lead) error
}

// NotionStore implements Store against a Notion database.
type NotionStore struct {
	client notion.Client
	dbID   string
}

// NewNotionStore creates a lead store backed by the given database.
func NewNotionStore(client notion.Client, dbID string) *NotionStore {
	return &NotionStore{client: client, dbID: dbID}
}

func (s *NotionStore) ReadExisting(ctx context.Context) ([]model.ExistingLead, error) {
	pages, err := notion.QueryAll(ctx, s.client, s.dbID, nil)
	if err != nil {
		return nil, eris.Wrap(err, "leadstore: read existing")
	}

	existing := make([]model.ExistingLead, 0, len(pages))
	for _, p := range pages {
		lead := parseLeadPage(p)
		if lead.Email == "" && lead.CompanyName == "" {
			zap.L().Warn("leadstore: skipping page without email or company",
				zap.String("page_id", string(p.ID)),
			)
			continue
		}
		existing = append(existing, lead)
	}

	return existing, nil
}

func parseLeadPage(p notionapi.Page) model.ExistingLead {
	var lead model.ExistingLead

	if prop, ok := p.Properties["Email"]; ok {
		if ep, ok := prop.(*notionapi.EmailProperty); ok {
			lead.Email = ep.Email
		}
	}
	if prop, ok := p.Properties["Company Name"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			lead.CompanyName = plainText(rtp.RichText)
		}
	}
	return lead
}

func (s *NotionStore) Append(ctx context.Context, lead model.Lead) error {
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: richText(lead.FullName),
		},
		"First Name":            notionapi.RichTextProperty{RichText: richText(lead.FirstName)},
		"Last Name":             notionapi.RichTextProperty{RichText: richText(lead.LastName)},
		"Company Name":          notionapi.RichTextProperty{RichText: richText(lead.CompanyNameCanonical)},
		"Company Name Original": notionapi.RichTextProperty{RichText: richText(lead.CompanyName)},
		"Status": notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(lead.Lifecycle)},
		},
	}

	if lead.Email != "" {
		props["Email"] = notionapi.EmailProperty{Email: lead.Email}
	}
	setText(props, "Title", lead.Title)
	setText(props, "Company Domain", lead.CompanyDomain)
	setText(props, "Job Title", lead.JobTitle)
	setText(props, "Job Location", lead.JobLocation)
	setText(props, "Company Industry", lead.CompanyIndustry)
	setText(props, "Posted Date", lead.PostedDate)
	setText(props, "Scraped At", lead.ScrapedAt)
	setText(props, "Email Confidence", lead.EmailConfidence)
	setText(props, "Compliment", lead.Compliment)
	setURL(props, "Company Website", lead.CompanyWebsite)
	setURL(props, "Company LinkedIn URL", lead.CompanyLinkedInURL)
	setURL(props, "Job URL", lead.JobURL)
	if lead.HasEmployeeCount {
		count := float64(lead.EmployeeCount)
		props["Employee Count"] = notionapi.NumberProperty{Number: count}
	}

	_, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.dbID),
		},
		Properties: props,
	})
	if err != nil {
		return eris.Wrapf(err, "leadstore: append lead %s", lead.FullName)
	}
	return nil
}

func setText(props notionapi.Properties, name, value string) {
	if value != "" {
		props[name] = notionapi.RichTextProperty{RichText: richText(value)}
	}
}

func setURL(props notionapi.Properties, name, value string) {
	if value != "" {
		props[name] = notionapi.URLProperty{URL: value}
	}
}

func richText(s string) []notionapi.RichText {
	return []notionapi.RichText{
		{Type: notionapi.ObjectTypeText, Text: &notionapi.Text{Content: s}},
	}
}

func plainText(rts []notionapi.RichText) string {
	var out string
	for _, rt := range rts {
		out += rt.PlainText
	}
	return out
}
