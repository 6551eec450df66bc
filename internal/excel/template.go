package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var sheetNames = map[Kind]string{
	KindClient:        "Clients",
	KindKeyword:       "Keywords",
	KindCompetitor:    "Competitors",
	KindGlobalKeyword: "Global Keywords",
}

// sampleRows are written under the header of each template, in Fields order.
var sampleRows = map[Kind][][]any{
	KindClient: {
		{"Joe's Plumbing", "plumbing", "Los Angeles", "California", "joesplumbing.com", "(555) 123-4567", "info@joesplumbing.com", 350, 0.05, 72},
		{"Cool Air HVAC", "hvac", "Austin", "Texas", "https://coolair.example.com", "(555) 987-6543", "hello@coolair.example.com", 500, 4, 65},
	},
	KindKeyword: {
		{"plumber near me", 5000, 7, 3, 15.5, 45, "plumbing", "Los Angeles", "California", 1, 2, 4},
		{"emergency plumber", 2400, 12, 3, 22.75, 52, "plumbing", "Los Angeles", "California", 2, 3, ""},
		{"ac repair austin", 1900, 4, 1, 18, 38, "hvac", "Austin", "Texas", "", "", ""},
	},
	KindCompetitor: {
		{"plumber near me", "Joe's Plumbing", 7, 3.4, "yes", 4.7, 112, "joesplumbing.com"},
		{"plumber near me", "Rapid Rooter", 1, 31.6, "no", 4.5, 340, "rapidrooter.example.com"},
		{"plumber near me", "Drain Masters", 2, 15.8, "no", 4.2, 87, ""},
	},
	KindGlobalKeyword: {
		{"plumber near me", "plumbing", 74000, 14.2, 48},
		{"roof repair", "roofing", 49500, 21.9, 55},
		{"hvac repair", "hvac", 33100, 17.3, 42},
	},
}

// SampleRows returns the example rows written to a template.
func SampleRows(kind Kind) [][]any {
	return sampleRows[kind]
}

// GenerateTemplate builds a workbook with the canonical header and sample
// rows for kind. The caller closes the file.
func GenerateTemplate(kind Kind) (*excelize.File, error) {
	sheet, ok := sheetNames[kind]
	if !ok {
		return nil, ErrUnknownTemplate
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := writeHeader(f, sheet, stringsToCells(Fields(kind))); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range sampleRows[kind] {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func stringsToCells(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func writeHeader(f *excelize.File, sheet string, header []any) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 20)
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
