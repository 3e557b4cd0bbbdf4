package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
	"github.com/growthlane/outreach-cli/internal/resilience"
	"github.com/growthlane/outreach-cli/pkg/apify"
)

// PostingSource produces raw job postings for a search. A source
// failure is the one error that fails an entire run.
type PostingSource interface {
	FetchPostings(ctx context.Context, search model.SearchConfig) ([]model.RawPosting, error)
}

// ApifySource scrapes LinkedIn job postings through the Apify actor.
type ApifySource struct {
	client apify.Client
	retry  resilience.RetryConfig
}

func NewApifySource(client apify.Client) *ApifySource {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("apify", "run actor")
	return &ApifySource{client: client, retry: retry}
}

func (s *ApifySource) FetchPostings(ctx context.Context, search model.SearchConfig) ([]model.RawPosting, error) {
	req := apify.RunRequest{
		Count:         search.MaxLeads,
		ScrapeCompany: true,
		URLs:          search.SearchURLs(),
	}

	items, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) ([]map[string]any, error) {
		return s.client.RunActor(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: fetch postings")
	}

	postings := make([]model.RawPosting, 0, len(items))
	for _, item := range items {
		postings = append(postings, itemToPosting(item))
	}
	zap.L().Info("source: postings fetched",
		zap.Int("count", len(postings)),
	)
	return postings, nil
}

func itemToPosting(item map[string]any) model.RawPosting {
	return model.RawPosting{
		JobID:              itemString(item, "jobId"),
		JobTitle:           itemString(item, "title"),
		CompanyName:        itemString(item, "companyName"),
		CompanyLinkedInURL: itemString(item, "companyLinkedinUrl"),
		CompanyWebsite:     itemString(item, "companyWebsite"),
		CompanyIndustry:    itemString(item, "companyIndustry"),
		JobPosterName:      itemString(item, "jobPosterName"),
		JobPosterTitle:     itemString(item, "jobPosterTitle"),
		JobLocation:        itemString(item, "location"),
		JobURL:             itemString(item, "jobUrl"),
		PostedDate:         itemString(item, "postedDate"),
		ScrapedAt:          itemTime(item, "scrapedAt"),
		EmployeeCount:      item["employeeCount"],
	}
}

func itemString(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func itemTime(item map[string]any, key string) string {
	if s := itemString(item, key); s != "" {
		return s
	}
	return time.Now().UTC().Format(time.RFC3339)
}
