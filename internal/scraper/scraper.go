package scraper

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/raid-report/internal/raid"
)

const (
	// DefaultRowSelector matches table body rows nested anywhere under a table
	DefaultRowSelector = "table tbody tr"

	minCells  = 3
	scoreCell = 1
	nameCell  = 2
)

// Scraper parses raid results tables
type Scraper struct {
	rowSelector string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithRowSelector overrides the CSS selector used to find result rows
func WithRowSelector(selector string) Option {
	return func(s *Scraper) {
		if strings.TrimSpace(selector) != "" {
			s.rowSelector = selector
		}
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		rowSelector: DefaultRowSelector,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Extraction is the result of parsing one raid page
type Extraction struct {
	Records     []raid.Record `json:"records"`
	TableFound  bool          `json:"table_found"`
	RowsSeen    int           `json:"rows_seen"`
	RowsSkipped int           `json:"rows_skipped"`
}

// Extract parses HTML from r and collects a record for every qualifying row,
// in document order. Only a failure to read or tokenize the input is an error.
func (s *Scraper) Extract(r io.Reader) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := doc.Find(s.rowSelector)
	result := &Extraction{
		Records:    make([]raid.Record, 0, rows.Length()),
		TableFound: rows.Length() > 0,
		RowsSeen:   rows.Length(),
	}

	rows.Each(func(i int, row *goquery.Selection) {
		// Direct cells only, so nested tables don't shift the columns
		cells := row.ChildrenFiltered("td")
		if cells.Length() < minCells {
			result.RowsSkipped++
			return
		}

		score := cells.Eq(scoreCell).Text()
		name := cells.Eq(nameCell).Text()
		result.Records = append(result.Records, raid.NewRecord(name, score))
	})

	return result, nil
}

// Parse extracts records from an HTML string
func (s *Scraper) Parse(html string) ([]raid.Record, error) {
	ext, err := s.Extract(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return ext.Records, nil
}

// Parse extracts records from an HTML string using the default selector
func Parse(html string) ([]raid.Record, error) {
	return New().Parse(html)
}
