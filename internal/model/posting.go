package model

// RawPosting is a job posting as received from the posting source.
// It is the untrusted input boundary: every field may be empty, and
// EmployeeCount may be a bare integer, a string-encoded or
// comma-separated integer, or free text like "500-1000 employees".
type RawPosting struct {
	JobID              string `json:"job_id,omitempty"`
	JobTitle           string `json:"job_title,omitempty"`
	CompanyName        string `json:"company_name,omitempty"`
	CompanyLinkedInURL string `json:"company_linkedin_url,omitempty"`
	CompanyWebsite     string `json:"company_website,omitempty"`
	CompanyIndustry    string `json:"company_industry,omitempty"`
	JobPosterName      string `json:"job_poster_name,omitempty"`
	JobPosterTitle     string `json:"job_poster_title,omitempty"`
	JobLocation        string `json:"job_location,omitempty"`
	JobURL             string `json:"job_url,omitempty"`
	PostedDate         string `json:"posted_date,omitempty"`
	EmployeeCount      any    `json:"employee_count,omitempty"`
	ScrapedAt          string `json:"scraped_at,omitempty"`
}

// SearchConfig describes one posting-source search.
type SearchConfig struct {
	Keywords  []string `json:"keywords"`
	TimeRange string   `json:"time_range"`
	GeoID     string   `json:"geo_id"`
	MaxLeads  int      `json:"max_leads"`
}

// SearchURLs builds one LinkedIn job-search URL per keyword.
func (s SearchConfig) SearchURLs() []string {
	urls := make([]string, 0, len(s.Keywords))
	for _, kw := range s.Keywords {
		urls = append(urls,
			"https://www.linkedin.com/jobs/search-results/"+
				"?f_TPR="+s.TimeRange+
				"&geoId="+s.GeoID+
				"&keywords="+kw)
	}
	return urls
}
