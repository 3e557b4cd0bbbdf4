package model

import "strings"

// LifecycleState tracks where a lead is in the pipeline.
type LifecycleState string

const (
	LifecycleNew        LifecycleState = "new"
	LifecycleNormalized LifecycleState = "normalized"
	LifecycleDeduped    LifecycleState = "deduped"
	LifecycleEnriched   LifecycleState = "enriched"
	LifecycleSubmitted  LifecycleState = "submitted"
	LifecycleRejected   LifecycleState = "rejected"
)

// EmailStatus records the outcome of the email discovery stage.
type EmailStatus string

const (
	EmailNotAttempted EmailStatus = "not_attempted"
	EmailFound        EmailStatus = "found"
	EmailNotFound     EmailStatus = "not_found"
	EmailRateLimited  EmailStatus = "rate_limited"
	EmailError        EmailStatus = "error"
)

// ComplimentStatus records the outcome of the compliment stage.
type ComplimentStatus string

const (
	ComplimentNotAttempted ComplimentStatus = "not_attempted"
	ComplimentAIGenerated  ComplimentStatus = "ai_generated"
	ComplimentFallback     ComplimentStatus = "fallback"
	ComplimentError        ComplimentStatus = "error"
)

// Lead is the canonical contact record flowing through the pipeline.
// CompanyName keeps the raw scraped name; CompanyNameCanonical is the
// suffix-stripped form used for cross-run identity.
type Lead struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	FullName             string `json:"full_name"`
	Title                string `json:"title,omitempty"`
	CompanyName          string `json:"company_name"`
	CompanyNameCanonical string `json:"company_name_canonical"`
	CompanyWebsite       string `json:"company_website"`
	CompanyDomain        string `json:"company_domain"`
	CompanyLinkedInURL   string `json:"company_linkedin_url"`

	JobTitle         string `json:"job_title,omitempty"`
	JobLocation      string `json:"job_location,omitempty"`
	JobURL           string `json:"job_url,omitempty"`
	PostedDate       string `json:"posted_date,omitempty"`
	ScrapedAt        string `json:"scraped_at,omitempty"`
	EmployeeCount    int    `json:"employee_count,omitempty"`
	HasEmployeeCount bool   `json:"has_employee_count"`
	CompanyIndustry  string `json:"company_industry,omitempty"`

	Email            string           `json:"email,omitempty"`
	EmailConfidence  string           `json:"email_confidence,omitempty"`
	EmailStatus      EmailStatus      `json:"email_status"`
	Compliment       string           `json:"compliment,omitempty"`
	ComplimentStatus ComplimentStatus `json:"compliment_status"`

	Lifecycle LifecycleState `json:"lifecycle_state"`
}

// StoreKey is the cross-run identity key: email + canonical company
// name, both lower-cased, joined with "_". Empty when the lead has no
// email; callers fall back to the company-only key.
func (l Lead) StoreKey() string {
	return StoreKey(l.Email, l.CompanyNameCanonical)
}

// StoreKey builds the composite identity key from an email and a
// company name. Returns "" unless both parts are present.
func StoreKey(email, company string) string {
	if email == "" || company == "" {
		return ""
	}
	return strings.ToLower(email) + "_" + strings.ToLower(company)
}

// ExistingLead is the projection of a previously persisted lead used
// for cross-run deduplication.
type ExistingLead struct {
	Email       string `json:"email"`
	CompanyName string `json:"company_name"`
}
