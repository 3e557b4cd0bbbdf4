package pipeline

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/model"
)

// companySuffixes is the fixed vocabulary of legal/corporate suffix
// tokens stripped from company names, matched as whole words.
var companySuffixes = []string{
	"Inc", "LLC", "Ltd", "LTD", "Corp", "Corporation", "Company", "Co",
	"Limited", "Incorporated", "Group", "Partners", "Associates",
	"International", "Intl", "Technologies", "Tech", "Software", "Systems",
	"Services", "Enterprises", "Ventures", "Holdings",
}

var (
	digitRun      = regexp.MustCompile(`\d+`)
	multiSpace    = regexp.MustCompile(`\s+`)
	trailingJunk  = regexp.MustCompile(`[,.\s]+$`)
	schemePrefix  = regexp.MustCompile(`^https?://`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	suffixPattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(companySuffixes, "|") + `)\b`)
)

// ExtractEmployeeCount normalizes the loosely-typed employee count.
// Numeric values cast directly; strings yield the first maximal run of
// digits ("500-1000 employees" -> 500). Returns ok=false when no count
// can be derived.
func ExtractEmployeeCount(v any) (int, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		m := digitRun.FindString(n)
		if m == "" {
			return 0, false
		}
		count := 0
		for _, r := range m {
			count = count*10 + int(r-'0')
		}
		return count, true
	default:
		return 0, false
	}
}

// CleanCompanyName strips the corporate-suffix vocabulary from a
// company name, collapses whitespace, and trims trailing punctuation.
func CleanCompanyName(name string) string {
	if name == "" {
		return name
	}
	cleaned := suffixPattern.ReplaceAllString(name, "")
	cleaned = multiSpace.ReplaceAllString(strings.TrimSpace(cleaned), " ")
	cleaned = trailingJunk.ReplaceAllString(cleaned, "")
	return cleaned
}

// SplitFullName splits a full name on whitespace. The first token is
// the first name; every remaining token joined by a single space forms
// the last name.
func SplitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// ExtractDomain derives a bare domain from a URL: scheme stripped,
// path stripped, leading www. stripped.
func ExtractDomain(url string) string {
	if url == "" {
		return ""
	}
	domain := schemePrefix.ReplaceAllString(url, "")
	if i := strings.Index(domain, "/"); i >= 0 {
		domain = domain[:i]
	}
	return strings.TrimPrefix(domain, "www.")
}

// ValidEmail reports whether the address has a plausible email shape.
func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// NormalizeStats counts what the normalizer did with a batch.
type NormalizeStats struct {
	In            int
	NoCount       int
	BelowMin      int
	MissingFields int
	Out           int
}

// Normalizer turns raw postings into normalized leads. Pure and
// synchronous; the only side effect is rejection logging.
type Normalizer struct {
	MinEmployeeCount int
}

// Normalize filters postings by employee count, cleans company names,
// validates required fields, and builds Leads in state normalized.
// Excluded records are logged and counted, never returned.
func (n *Normalizer) Normalize(postings []model.RawPosting) ([]model.Lead, NormalizeStats) {
	stats := NormalizeStats{In: len(postings)}
	leads := make([]model.Lead, 0, len(postings))

	for _, p := range postings {
		count, ok := ExtractEmployeeCount(p.EmployeeCount)
		if !ok {
			stats.NoCount++
			zap.L().Warn("normalize: no employee count",
				zap.String("company", p.CompanyName),
			)
			continue
		}
		if count < n.MinEmployeeCount {
			stats.BelowMin++
			continue
		}

		if p.CompanyName == "" || p.JobPosterName == "" || p.CompanyWebsite == "" {
			stats.MissingFields++
			zap.L().Warn("normalize: missing required fields",
				zap.String("company", p.CompanyName),
				zap.String("poster", p.JobPosterName),
				zap.String("website", p.CompanyWebsite),
			)
			continue
		}

		first, last := SplitFullName(p.JobPosterName)
		leads = append(leads, model.Lead{
			FirstName:            first,
			LastName:             last,
			FullName:             p.JobPosterName,
			Title:                p.JobPosterTitle,
			CompanyName:          p.CompanyName,
			CompanyNameCanonical: CleanCompanyName(p.CompanyName),
			CompanyWebsite:       p.CompanyWebsite,
			CompanyDomain:        ExtractDomain(p.CompanyWebsite),
			CompanyLinkedInURL:   p.CompanyLinkedInURL,
			JobTitle:             p.JobTitle,
			JobLocation:          p.JobLocation,
			JobURL:               p.JobURL,
			PostedDate:           p.PostedDate,
			ScrapedAt:            p.ScrapedAt,
			EmployeeCount:        count,
			HasEmployeeCount:     true,
			CompanyIndustry:      p.CompanyIndustry,
			EmailStatus:          model.EmailNotAttempted,
			ComplimentStatus:     model.ComplimentNotAttempted,
			Lifecycle:            model.LifecycleNormalized,
		})
	}

	stats.Out = len(leads)
	return leads, stats
}
