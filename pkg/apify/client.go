// Package apify wraps the Apify actor API used as the job-posting source.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const (
	defaultBaseURL = "https://api.apify.com/v2/acts"
	defaultActorID = "hKByXkMQaC5Qt9UMN"
)

// Client runs the LinkedIn jobs actor and returns its dataset items.
type Client interface {
	RunActor(ctx context.Context, req RunRequest) ([]map[string]any, error)
}

// RunRequest is the actor input payload.
type RunRequest struct {
	Count         int      `json:"count"`
	ScrapeCompany bool     `json:"scrapeCompany"`
	URLs          []string `json:"urls"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithActorID overrides the default actor.
func WithActorID(id string) Option {
	return func(c *httpClient) {
		c.actorID = id
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
	actorID string
	http    *http.Client
}

// NewClient creates an Apify actor client. Actor runs are synchronous
// and can take minutes, so the default timeout is generous.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		actorID: defaultActorID,
		http: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) RunActor(ctx context.Context, req RunRequest) ([]map[string]any, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "apify: marshal request")
	}

	url := c.baseURL + "/" + c.actorID + "/run-sync-get-dataset-items"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "apify: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "apify: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "apify: read response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, eris.Errorf("apify: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var items []map[string]any
	if err := json.Unmarshal(respBody, &items); err != nil {
		return nil, eris.Wrap(err, "apify: unmarshal dataset items")
	}

	return items, nil
}
