// Package heyreach wraps the HeyReach campaign API used as the
// outreach sink.
package heyreach

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.heyreach.com"

// Outcome classifies a lead submission. AlreadyExists and RateLimited
// are expected results, not errors.
type Outcome string

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeRateLimited   Outcome = "rate_limited"
)

// Client submits leads to a campaign.
type Client interface {
	AddLead(ctx context.Context, lead CampaignLead) (Outcome, error)
}

// CampaignLead is the pruned lead projection submitted to a campaign.
// Empty fields are omitted from the wire payload.
type CampaignLead struct {
	CampaignID    string            `json:"campaign_id"`
	FirstName     string            `json:"first_name,omitempty"`
	LastName      string            `json:"last_name,omitempty"`
	Email         string            `json:"email,omitempty"`
	Company       string            `json:"company,omitempty"`
	Title         string            `json:"title,omitempty"`
	Website       string            `json:"website,omitempty"`
	LinkedInURL   string            `json:"linkedin_url,omitempty"`
	Location      string            `json:"location,omitempty"`
	Industry      string            `json:"industry,omitempty"`
	EmployeeCount string            `json:"employee_count,omitempty"`
	CustomFields  map[string]string `json:"custom_fields,omitempty"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a HeyReach API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) AddLead(ctx context.Context, lead CampaignLead) (Outcome, error) {
	body, err := json.Marshal(lead)
	if err != nil {
		return "", eris.Wrap(err, "heyreach: marshal lead")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/leads", bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "heyreach: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", eris.Wrap(err, "heyreach: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "heyreach: read response")
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return OutcomeCreated, nil
	case http.StatusConflict:
		return OutcomeAlreadyExists, nil
	case http.StatusTooManyRequests:
		return OutcomeRateLimited, nil
	default:
		return "", eris.Errorf("heyreach: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
}
