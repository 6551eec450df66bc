// Package excel imports, validates and exports the dashboard's spreadsheet
// templates.
package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnreadableFile wraps any failure to decode a workbook.
var ErrUnreadableFile = errors.New("unable to read spreadsheet")

// Row is one data row keyed by the sheet's own header text.
type Row struct {
	Number int // 1-based row number in the sheet
	Values map[string]string
}

// ParseFile decodes the first sheet of a workbook. The first non-blank row is
// the header; blank rows are skipped.
func ParseFile(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableFile)
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}

	var header []string
	rows := []Row{}
	for i, cols := range cells {
		if isBlankRow(cols) {
			continue
		}
		if header == nil {
			header = cols
			continue
		}

		values := make(map[string]string, len(header))
		for j, h := range header {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			if j < len(cols) {
				values[h] = strings.TrimSpace(cols[j])
			} else {
				values[h] = ""
			}
		}
		rows = append(rows, Row{Number: i + 1, Values: values})
	}
	return rows, nil
}

func isBlankRow(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
