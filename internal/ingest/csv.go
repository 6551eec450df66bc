// Package ingest parses keyword and ranking exports in the loose CSV format
// produced by keyword research tools.
package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"rankdash/internal/models"
	"rankdash/internal/revenue"
	"rankdash/internal/validation"
)

var (
	ErrEmptyInput           = errors.New("csv input is empty")
	ErrMissingKeywordColumn = errors.New("csv header has no keyword column")
)

// Options controls how coercion failures are handled.
type Options struct {
	// Strict drops rows with unparseable numbers and reports them as errors.
	// Otherwise the value becomes 0 and a Warning is recorded. Negative or
	// oversized values are errors in both modes.
	Strict bool
}

// Warning records a value that could not be coerced and was replaced by 0.
type Warning struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (w Warning) String() string {
	return fmt.Sprintf("Line %d: %s value %q is not a number, using 0", w.Line, w.Column, w.Value)
}

// KeywordResult is the outcome of a keyword CSV parse.
type KeywordResult struct {
	Keywords []models.Keyword
	Warnings []Warning
	Errors   []string
}

// RankingResult is the outcome of a ranking CSV parse.
type RankingResult struct {
	Rankings  []models.Ranking
	Warnings  []Warning
	Errors    []string
	Unmatched int // rows whose keyword text matched no existing keyword
}

// column binds a field to header cells containing any of the match substrings.
type column struct {
	field string
	match []string
}

// Field names, bound in slice order.
var keywordColumns = []column{
	{"keyword", []string{"keyword"}},
	{"search", []string{"search"}},
	{"competition", []string{"competition"}},
	{"cpc", []string{"cpc", "bid"}},
	{"state", []string{"state"}},
	{"city", []string{"city"}},
	{"avg_job", []string{"job", "avg"}},
}

var rankingColumns = []column{
	{"keyword", []string{"keyword"}},
	{"rank", []string{"rank"}},
	{"name", []string{"gmb", "name"}},
	{"traffic", []string{"traffic"}},
	{"mine", []string{"mine", "my"}},
}

// bindHeader maps each field to the first unclaimed header cell that
// contains one of its substrings.
func bindHeader(header []string, columns []column) map[string]int {
	lowered := make([]string, len(header))
	for i, h := range header {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	claimed := make(map[int]bool, len(header))
	bound := make(map[string]int, len(columns))
	for _, col := range columns {
	cells:
		for i, h := range lowered {
			if claimed[i] {
				continue
			}
			for _, m := range col.match {
				if strings.Contains(h, m) {
					bound[col.field] = i
					claimed[i] = true
					break cells
				}
			}
		}
	}
	return bound
}

type line struct {
	number int
	cells  []string
}

// splitLines returns the header cells and the non-blank data lines.
func splitLines(text string) ([]string, []line, error) {
	var header []string
	var lines []line
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		cells := strings.Split(raw, ",")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		if header == nil {
			header = cells
			continue
		}
		lines = append(lines, line{number: i + 1, cells: cells})
	}
	if header == nil {
		return nil, nil, ErrEmptyInput
	}
	return header, lines, nil
}

// row reads typed values from one data line. Coercion failures become
// warnings; values the store cannot hold become errors and drop the row.
type row struct {
	line     line
	bound    map[string]int
	warnings []Warning
	errs     []string
}

func (r *row) text(field string) string {
	i, ok := r.bound[field]
	if !ok || i >= len(r.line.cells) {
		return ""
	}
	return r.line.cells[i]
}

func (r *row) number(field string) float64 {
	raw := r.text(field)
	v, err := validation.ParseNumber(raw)
	if err != nil {
		r.warnings = append(r.warnings, Warning{Line: r.line.number, Column: field, Value: raw})
		return 0
	}
	return v
}

// bounded reads a number that must lie in [0, max].
func (r *row) bounded(field string, max float64) float64 {
	v := r.number(field)
	if v >= 0 && v <= max {
		return v
	}
	if max == math.MaxFloat64 {
		r.errs = append(r.errs, fmt.Sprintf("Line %d: %s value %q cannot be negative", r.line.number, field, r.text(field)))
	} else {
		r.errs = append(r.errs, fmt.Sprintf("Line %d: %s value %q must be between 0 and %d", r.line.number, field, r.text(field), int64(max)))
	}
	return 0
}

func (r *row) count(field string) int {
	return int(math.Trunc(r.bounded(field, validation.MaxCount)))
}

// ParseKeywordsCSV parses a keyword export leniently.
func ParseKeywordsCSV(text string) (*KeywordResult, error) {
	return ParseKeywordsCSVWithOptions(text, Options{})
}

// ParseKeywordsCSVWithOptions parses a keyword export. Each keyword gets a new id.
func ParseKeywordsCSVWithOptions(text string, opts Options) (*KeywordResult, error) {
	header, lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}
	bound := bindHeader(header, keywordColumns)
	if _, ok := bound["keyword"]; !ok {
		return nil, ErrMissingKeywordColumn
	}

	result := &KeywordResult{Keywords: []models.Keyword{}}
	for _, l := range lines {
		r := &row{line: l, bound: bound}
		kw := models.Keyword{
			ID:              uuid.New(),
			Text:            r.text("keyword"),
			MonthlySearches: r.count("search"),
			Competition:     r.text("competition"),
			CPC:             r.bounded("cpc", math.MaxFloat64),
			State:           r.text("state"),
			City:            r.text("city"),
			AvgJobSize:      r.bounded("avg_job", math.MaxFloat64),
			TargetRank:      revenue.DefaultTargetRank,
		}
		if kw.Text == "" {
			continue
		}
		if !result.accept(r, opts) {
			continue
		}
		result.Keywords = append(result.Keywords, kw)
	}
	return result, nil
}

func (res *KeywordResult) accept(r *row, opts Options) bool {
	if len(r.errs) > 0 {
		res.Errors = append(res.Errors, r.errs...)
		return false
	}
	if len(r.warnings) == 0 {
		return true
	}
	if opts.Strict {
		res.Errors = append(res.Errors, strictError(r))
		return false
	}
	res.Warnings = append(res.Warnings, r.warnings...)
	return true
}

func strictError(r *row) string {
	cols := make([]string, len(r.warnings))
	for i, w := range r.warnings {
		cols[i] = fmt.Sprintf("%s=%q", w.Column, w.Value)
	}
	return fmt.Sprintf("Line %d: invalid number (%s)", r.line.number, strings.Join(cols, ", "))
}

// ParseRankingsCSV parses a ranking export leniently against existing keywords.
func ParseRankingsCSV(text string, existing []models.Keyword) (*RankingResult, error) {
	return ParseRankingsCSVWithOptions(text, existing, Options{})
}

// ParseRankingsCSVWithOptions parses a ranking export. Rows are matched to
// existing keywords by case-insensitive keyword text; unmatched rows are
// dropped. A later row with the same (keyword, entity, rank) replaces an
// earlier one.
func ParseRankingsCSVWithOptions(text string, existing []models.Keyword, opts Options) (*RankingResult, error) {
	header, lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}
	bound := bindHeader(header, rankingColumns)
	if _, ok := bound["keyword"]; !ok {
		return nil, ErrMissingKeywordColumn
	}

	byText := make(map[string]uuid.UUID, len(existing))
	for _, kw := range existing {
		key := validation.NormalizeKeyword(kw.Text)
		if _, dup := byText[key]; !dup {
			byText[key] = kw.ID
		}
	}

	result := &RankingResult{}
	var rankings []models.Ranking
	for _, l := range lines {
		r := &row{line: l, bound: bound}
		keywordID, ok := byText[validation.NormalizeKeyword(r.text("keyword"))]
		if !ok {
			result.Unmatched++
			continue
		}

		rank := math.Trunc(r.number("rank"))
		ranking := models.Ranking{
			ID:           uuid.New(),
			KeywordID:    keywordID,
			EntityName:   r.text("name"),
			TrafficShare: r.number("traffic"),
			IsMyBusiness: validation.ParseBool(r.text("mine")),
		}

		if len(r.warnings) > 0 {
			if opts.Strict {
				result.Errors = append(result.Errors, strictError(r))
				continue
			}
			result.Warnings = append(result.Warnings, r.warnings...)
		}
		switch {
		case rank < 1:
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: rank must be at least 1", l.number))
			continue
		case rank > validation.MaxCount:
			result.Errors = append(result.Errors, fmt.Sprintf("Line %d: rank must be at most %d", l.number, validation.MaxCount))
			continue
		}
		ranking.Rank = int(rank)
		rankings = append(rankings, ranking)
	}

	result.Rankings = models.DedupeRankings(rankings)
	if result.Rankings == nil {
		result.Rankings = []models.Ranking{}
	}
	return result, nil
}

// WarningStrings renders warnings for API responses.
func WarningStrings(warnings []Warning) []string {
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = w.String()
	}
	return out
}
