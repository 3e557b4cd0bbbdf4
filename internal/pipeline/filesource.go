package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/growthlane/outreach-cli/internal/fetcher"
	"github.com/growthlane/outreach-cli/internal/model"
)

// FileSource reads raw postings from a local CSV or XLSX export
// instead of scraping. Column mapping is header-driven; the search
// config is ignored except for MaxLeads.
type FileSource struct {
	Path    string
	Sheet   string
	Charset string
}

func (s *FileSource) FetchPostings(ctx context.Context, search model.SearchConfig) ([]model.RawPosting, error) {
	var header []string
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".xlsx":
		header, rows, err = s.readXLSX()
	case ".csv":
		header, rows, err = s.readCSV(ctx)
	default:
		return nil, eris.Errorf("pipeline: unsupported import format %q", filepath.Ext(s.Path))
	}
	if err != nil {
		return nil, err
	}
	if len(header) == 0 {
		return nil, eris.New("pipeline: import file has no header row")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeHeader(name)] = i
	}

	postings := make([]model.RawPosting, 0, len(rows))
	for _, row := range rows {
		if search.MaxLeads > 0 && len(postings) >= search.MaxLeads {
			break
		}
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		postings = append(postings, model.RawPosting{
			JobID:              cell("job_id"),
			JobTitle:           cell("job_title"),
			CompanyName:        cell("company_name"),
			CompanyLinkedInURL: cell("company_linkedin_url"),
			CompanyWebsite:     cell("company_website"),
			CompanyIndustry:    cell("company_industry"),
			JobPosterName:      cell("job_poster_name"),
			JobPosterTitle:     cell("job_poster_title"),
			JobLocation:        cell("job_location"),
			JobURL:             cell("job_url"),
			PostedDate:         cell("posted_date"),
			ScrapedAt:          cell("scraped_at"),
			EmployeeCount:      cell("employee_count"),
		})
	}

	zap.L().Info("source: postings imported",
		zap.String("path", s.Path),
		zap.Int("count", len(postings)),
	)
	return postings, nil
}

func (s *FileSource) readXLSX() ([]string, [][]string, error) {
	rows, err := fetcher.ReadXLSX(s.Path, fetcher.XLSXOptions{SheetName: s.Sheet})
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

func (s *FileSource) readCSV(ctx context.Context) ([]string, [][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: open import file")
	}
	defer f.Close()

	reader, err := fetcher.DecodeCharset(f, s.Charset)
	if err != nil {
		return nil, nil, err
	}

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, reader, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, nil, err
	}

	var header []string
	select {
	case header = <-headerCh:
	default:
	}
	return header, rows, nil
}

// normalizeHeader folds both export styles ("Company Name" and
// "company_name") to the same key.
func normalizeHeader(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "_")
	return n
}
