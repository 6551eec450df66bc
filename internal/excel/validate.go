package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"rankdash/internal/models"
	"rankdash/internal/revenue"
	"rankdash/internal/validation"
)

// Result is the outcome of validating a sheet. Valid is false if any row
// failed, but Data still holds every row that passed.
type Result[T any] struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
	Data   []T      `json:"data"`
}

// CompetitorRow is a validated competitor ranking row. Keyword holds the
// keyword text; it is matched to a stored keyword on import.
type CompetitorRow struct {
	Keyword      string  `json:"keyword"`
	Name         string  `json:"competitor_name"`
	Rank         int     `json:"rank"`
	TrafficShare float64 `json:"traffic_share"`
	IsMyBusiness bool    `json:"is_my_business"`
	Rating       float64 `json:"rating"`
	ReviewCount  int     `json:"review_count"`
	Website      string  `json:"website"`
}

// Ranking converts the row into a ranking for the given keyword.
func (c CompetitorRow) Ranking(keywordID uuid.UUID) models.Ranking {
	return models.Ranking{
		ID:           uuid.New(),
		KeywordID:    keywordID,
		Rank:         c.Rank,
		EntityName:   c.Name,
		TrafficShare: c.TrafficShare,
		IsMyBusiness: c.IsMyBusiness,
	}
}

// record accumulates typed values and errors for one normalized row.
type record struct {
	rowNum int
	values map[string]string
	errs   []string
}

func (r *record) fail(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf("Row %d: ", r.rowNum)+fmt.Sprintf(format, args...))
}

func (r *record) text(field string) string {
	return r.values[field]
}

func (r *record) required(field, label string) string {
	v := r.values[field]
	if v == "" {
		r.fail("%s is required", label)
	}
	return v
}

func (r *record) present(field string) bool {
	return !validation.IsBlank(r.values[field])
}

// number parses an optional number and checks min <= v <= max.
func (r *record) number(field, label string, min, max float64) float64 {
	v, err := validation.ParseNumber(r.values[field])
	if err != nil {
		r.fail("%s must be a number", label)
		return 0
	}
	if !validation.InRange(v, min, max) {
		r.fail("%s %s", label, describeRange(min, max))
		return 0
	}
	return v
}

func (r *record) integer(field, label string, min, max float64) int {
	return int(r.number(field, label, min, max))
}

// rank parses an optional rank. Blank yields nil.
func (r *record) rank(field, label string) *int {
	if !r.present(field) {
		return nil
	}
	v, err := validation.ParseNumber(r.values[field])
	if err != nil {
		r.fail("%s must be a number", label)
		return nil
	}
	if v < 1 {
		r.fail("%s must be at least 1", label)
		return nil
	}
	if v > validation.MaxCount {
		r.fail("%s must be at most %d", label, validation.MaxCount)
		return nil
	}
	n := int(v)
	return &n
}

const unbounded = 1e15

func describeRange(min, max float64) string {
	if max >= unbounded {
		if min == 0 {
			return "cannot be negative"
		}
		return fmt.Sprintf("must be at least %g", min)
	}
	return fmt.Sprintf("must be between %s and %s", formatBound(min), formatBound(max))
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// validate normalizes each row and runs build on it. Rows with errors are
// reported and excluded; the batch always runs to completion.
func validate[T any](kind Kind, rows []Row, build func(r *record) T) Result[T] {
	res := Result[T]{Errors: []string{}, Data: []T{}}
	for _, row := range rows {
		r := &record{rowNum: row.Number, values: Normalize(kind, row.Values)}
		item := build(r)
		if len(r.errs) > 0 {
			res.Errors = append(res.Errors, r.errs...)
			continue
		}
		res.Data = append(res.Data, item)
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// ValidateClientData validates rows from the client template.
func ValidateClientData(rows []Row) Result[models.Client] {
	return validate(KindClient, rows, func(r *record) models.Client {
		c := models.Client{
			ID:              uuid.New(),
			BusinessName:    r.required("business_name", "Business name"),
			Category:        r.text("category"),
			City:            r.text("city"),
			State:           r.text("state"),
			Phone:           r.text("phone"),
			Email:           r.text("email"),
			AvgJobValue:     r.number("avg_job_value", "Average job value", 0, unbounded),
			ConversionRate:  validation.NormalizeConversionRate(r.number("conversion_rate", "Conversion rate", 0, 100)),
			VisibilityScore: r.integer("visibility_score", "Visibility score", 0, 100),
		}
		if r.present("website") {
			website, ok, msg := validation.ValidateURL(r.text("website"))
			if !ok {
				r.fail("Website is invalid: %s", msg)
			}
			c.Website = website
		}
		if c.Email != "" && !strings.Contains(c.Email, "@") {
			r.fail("Email %q is invalid", c.Email)
		}
		return c
	})
}

// ValidateKeywordData validates rows from the keyword template.
func ValidateKeywordData(rows []Row) Result[models.Keyword] {
	return validate(KindKeyword, rows, func(r *record) models.Keyword {
		kw := models.Keyword{
			ID:              uuid.New(),
			Text:            r.required("keyword", "Keyword"),
			MonthlySearches: r.integer("search_volume", "Search volume", 0, validation.MaxCount),
			CPC:             r.number("cpc", "CPC", 0, unbounded),
			Difficulty:      r.integer("difficulty", "Difficulty", 0, 100),
			Category:        r.text("category"),
			City:            r.text("city"),
			State:           r.text("state"),
			TargetRank:      revenue.DefaultTargetRank,
			Competitor1Rank: r.rank("competitor1_rank", "Competitor 1 rank"),
			Competitor2Rank: r.rank("competitor2_rank", "Competitor 2 rank"),
			Competitor3Rank: r.rank("competitor3_rank", "Competitor 3 rank"),
		}
		if kw.Text != "" && !validation.ValidateKeyword(kw.Text) {
			r.fail("Keyword is longer than %d characters", validation.MaxKeywordLength)
		}
		if rank := r.rank("current_rank", "Current rank"); rank != nil {
			kw.CurrentRank = *rank
		}
		if target := r.rank("target_rank", "Target rank"); target != nil {
			kw.TargetRank = *target
		}
		return kw
	})
}

// ValidateCompetitorData validates rows from the competitor template.
func ValidateCompetitorData(rows []Row) Result[CompetitorRow] {
	return validate(KindCompetitor, rows, func(r *record) CompetitorRow {
		c := CompetitorRow{
			Keyword:      r.required("keyword", "Keyword"),
			Name:         r.required("competitor_name", "Competitor name"),
			TrafficShare: r.number("traffic_share", "Traffic share", 0, 100),
			IsMyBusiness: validation.ParseBool(r.text("is_my_business")),
			Rating:       r.number("rating", "Rating", 0, 5),
			ReviewCount:  r.integer("review_count", "Review count", 0, unbounded),
			Website:      r.text("website"),
		}
		if !r.present("rank") {
			r.fail("Rank is required")
		} else if rank := r.rank("rank", "Rank"); rank != nil {
			c.Rank = *rank
		}
		return c
	})
}

// ValidateGlobalKeywordData validates rows from the global keyword template.
func ValidateGlobalKeywordData(rows []Row) Result[models.GlobalKeyword] {
	return validate(KindGlobalKeyword, rows, func(r *record) models.GlobalKeyword {
		return models.GlobalKeyword{
			ID:           uuid.New(),
			Keyword:      r.required("keyword", "Keyword"),
			Category:     r.required("category", "Category"),
			SearchVolume: r.integer("search_volume", "Search volume", 0, validation.MaxCount),
			CPC:          r.number("cpc", "CPC", 0, unbounded),
			Difficulty:   r.integer("difficulty", "Difficulty", 0, 100),
		}
	})
}
