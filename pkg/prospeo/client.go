// Package prospeo wraps the Prospeo email-finder API.
package prospeo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.prospeo.io"

// Outcome classifies an email lookup. RateLimited and NotFound are
// expected results, not errors; transport and malformed-response
// failures are returned as errors.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeRateLimited Outcome = "rate_limited"
)

// Client performs email lookups.
type Client interface {
	FindEmail(ctx context.Context, req FindRequest) (*Result, error)
}

// FindRequest identifies the person to look up.
type FindRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Domain    string `json:"domain"`
}

// Result is the tagged outcome of a lookup. Email and Confidence are
// set only when Outcome is OutcomeFound.
type Result struct {
	Outcome    Outcome
	Email      string
	Confidence string
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

// NewClient creates a Prospeo API client.
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

type findResponse struct {
	Email      string `json:"email"`
	Confidence string `json:"confidence"`
	Status     string `json:"status"`
}

func (c *httpClient) FindEmail(ctx context.Context, req FindRequest) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "prospeo: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/email-finder", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "prospeo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "prospeo: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "prospeo: read response")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Result{Outcome: OutcomeRateLimited}, nil
	case resp.StatusCode == http.StatusNotFound:
		return &Result{Outcome: OutcomeNotFound}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, eris.Errorf("prospeo: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var fr findResponse
	if err := json.Unmarshal(respBody, &fr); err != nil {
		return nil, eris.Wrap(err, "prospeo: unmarshal response")
	}

	// The API reports unverifiable addresses with a non-VALID status;
	// those are treated as not found.
	if fr.Email == "" || fr.Status != "VALID" {
		return &Result{Outcome: OutcomeNotFound}, nil
	}

	return &Result{
		Outcome:    OutcomeFound,
		Email:      fr.Email,
		Confidence: fr.Confidence,
	}, nil
}
