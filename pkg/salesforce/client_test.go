package salesforce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gosf "github.com/k-capehart/go-salesforce/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSFClient creates an sfClient backed by an httptest server.
func newTestSFClient(t *testing.T, handler http.Handler) (Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)

	sf, err := gosf.Init(gosf.Creds{
		AccessToken: "test-token",
		Domain:      ts.URL,
	},
		gosf.WithValidateAuthentication(false),
		gosf.WithRoundTripper(http.DefaultTransport),
	)
	require.NoError(t, err)
	require.NotNil(t, sf)

	return NewClient(sf), ts
}

type sfLead struct {
	ID      string `json:"Id"`
	Email   string `json:"Email"`
	Company string `json:"Company"`
}

func TestSFClient_Query(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/query")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"totalSize": 1,
			"done":      true,
			"records": []map[string]any{
				{
					"attributes": map[string]any{"type": "Lead"},
					"Id":         "00Qxx",
					"Email":      "john@acme.com",
					"Company":    "Acme",
				},
			},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	var leads []sfLead
	err := client.Query(context.Background(), "SELECT Id, Email, Company FROM Lead", &leads)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "00Qxx", leads[0].ID)
	assert.Equal(t, "john@acme.com", leads[0].Email)
}

func TestSFClient_Query_Error(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"message": "invalid SOQL", "errorCode": "MALFORMED_QUERY"},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	var leads []sfLead
	err := client.Query(context.Background(), "SELECT bogus FROM Lead", &leads)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sf: query")
}

func TestSFClient_InsertOne(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "/sobjects/Lead")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "00QNEW",
			"success": true,
			"errors":  []any{},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	id, err := client.InsertOne(context.Background(), "Lead", map[string]any{
		"Company":  "Acme",
		"LastName": "Acme",
		"Email":    "john@acme.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "00QNEW", id)
}

func TestSFClient_InsertCollection(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.Contains(r.URL.Path, "/composite/sobjects"))
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": "00Q1", "success": true, "errors": []any{}},
			{"id": "", "success": false, "errors": []map[string]any{
				{"message": "Required fields are missing: [Company]", "statusCode": "REQUIRED_FIELD_MISSING"},
			}},
		})
	})

	client, ts := newTestSFClient(t, handler)
	defer ts.Close()

	results, err := client.InsertCollection(context.Background(), "Lead", []map[string]any{
		{"Company": "Acme", "LastName": "Acme"},
		{"LastName": "Beta"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.Equal(t, "00Q1", results[0].ID)
	assert.False(t, results[1].Success)
	require.Len(t, results[1].Errors, 1)
	assert.Contains(t, results[1].Errors[0], "Required fields")
}
