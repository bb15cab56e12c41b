package loader

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// XLSXOptions selects the worksheet holding the record.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// readXLSXRows returns the header row and the first non-blank data row of a
// worksheet, plus the number of further non-blank rows.
func readXLSXRows(ctx context.Context, path string, opts XLSXOptions) ([]string, []string, int, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, nil, 0, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, nil, 0, err
	}

	var header, row []string
	extra := 0
	for _, r := range sheet.Rows {
		if ctx.Err() != nil {
			return nil, nil, 0, eris.Wrap(ctx.Err(), "xlsx: context cancelled")
		}
		cells := rowToStrings(r)
		if isBlank(cells) {
			continue
		}
		switch {
		case header == nil:
			header = cells
		case row == nil:
			row = cells
		default:
			extra++
		}
	}

	if header == nil {
		return nil, nil, 0, eris.New("xlsx: missing header row")
	}
	if row == nil {
		return nil, nil, 0, eris.New("xlsx: missing data row")
	}
	return header, row, extra, nil
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		if sheet, ok := f.Sheet[opts.SheetName]; ok {
			return sheet, nil
		}
		for _, sheet := range f.Sheets {
			if strings.EqualFold(sheet.Name, opts.SheetName) {
				return sheet, nil
			}
		}
		return nil, eris.Errorf("xlsx: sheet %q not found", opts.SheetName)
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}

// rowToStrings returns the cell text of row without trailing empty cells,
// which spreadsheets keep for formatted but unused columns.
func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	end := len(row.Cells)
	for end > 0 && row.Cells[end-1].String() == "" {
		end--
	}
	cells := make([]string, end)
	for j, cell := range row.Cells[:end] {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
