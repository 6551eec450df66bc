package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"rankdash/internal/models"
	"rankdash/internal/revenue"
)

const reportSheet = "Revenue Report"

var reportHeader = []any{
	"Keyword", "Location", "Search Volume", "Current Rank", "Target Rank",
	"Current Clicks", "Potential Clicks", "Current Revenue", "Potential Revenue",
	"Revenue Loss", "Top Competitor", "Competitor Revenue",
}

// ReportRow is one keyword line of the revenue report.
type ReportRow struct {
	revenue.KeywordRevenue
	TargetRank  int
	Competitors []models.Competitor
}

// WriteRevenueReport writes a revenue-loss workbook with a totals row.
func WriteRevenueReport(w io.Writer, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := writeHeader(f, reportSheet, reportHeader); err != nil {
		return err
	}

	var totals models.RevenueMetrics
	for i, row := range rows {
		kw, m := row.Keyword, row.Metrics
		rank := any(kw.CurrentRank)
		if !kw.IsRanked() {
			rank = "Not ranked"
		}

		var topName any = ""
		var topRevenue any = ""
		if len(row.Competitors) > 0 {
			topName = row.Competitors[0].Name
			topRevenue = row.Competitors[0].Revenue
		}

		cells := []any{
			kw.Text, kw.Location(), kw.MonthlySearches, rank, row.TargetRank,
			m.CurrentClicks, m.PotentialClicks, m.CurrentRevenue, m.PotentialRevenue,
			m.RevenueLoss, topName, topRevenue,
		}
		if err := writeRow(f, reportSheet, i+2, cells); err != nil {
			return err
		}

		totals.CurrentClicks += m.CurrentClicks
		totals.PotentialClicks += m.PotentialClicks
		totals.CurrentRevenue += m.CurrentRevenue
		totals.PotentialRevenue += m.PotentialRevenue
		totals.RevenueLoss += m.RevenueLoss
	}

	totalRow := []any{
		"Total", "", "", "", "",
		totals.CurrentClicks, totals.PotentialClicks, totals.CurrentRevenue, totals.PotentialRevenue,
		totals.RevenueLoss,
	}
	if err := writeRow(f, reportSheet, len(rows)+2, totalRow); err != nil {
		return err
	}

	return f.Write(w)
}
