// Package csvrow renders footprint records as delimited lines and parses
// them back.
package csvrow

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/footprint-cli/internal/model"
)

// Format is a locale convention for CSV output.
type Format string

const (
	// FormatUS separates fields with commas and uses a '.' decimal point.
	FormatUS Format = "us"
	// FormatEU separates fields with semicolons and uses a ',' decimal point.
	FormatEU Format = "eu"
)

// ParseFormat converts a config or flag value to a Format. "fr" is accepted
// as an alias of "eu".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "us":
		return FormatUS, nil
	case "eu", "fr":
		return FormatEU, nil
	default:
		return "", eris.Errorf("csvrow: unknown csv format %q", s)
	}
}

// Delimiter returns the field separator of f.
func (f Format) Delimiter() rune {
	if f == FormatEU {
		return ';'
	}
	return ','
}

// Headers returns the header line listing every schema field.
func Headers(format Format) (string, error) {
	return formatLine(model.FieldNames(), format)
}

// Row renders every schema field of r in schema order. Fields the record
// does not carry are written as empty cells.
func Row(r model.Record, format Format) (string, error) {
	fields := model.Schema()
	cells := make([]string, len(fields))
	for i, f := range fields {
		v := r.Value(f)
		s := v.String()
		if format == FormatEU && v.Kind() == model.KindFloat {
			s = strings.ReplaceAll(s, ".", ",")
		}
		cells[i] = s
	}
	return formatLine(cells, format)
}

func formatLine(cells []string, format Format) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = format.Delimiter()
	w.UseCRLF = true
	if err := w.Write(cells); err != nil {
		return "", eris.Wrap(err, "csvrow: write row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", eris.Wrap(err, "csvrow: flush row")
	}
	return buf.String(), nil
}

// ParseRow pairs header names with row cells and coerces them into a Record.
// In FormatEU the decimal comma of float fields is turned back into a point.
func ParseRow(header, row []string, format Format) (model.Record, error) {
	if len(row) > len(header) {
		return model.Record{}, eris.Errorf("csvrow: row has %d cells but header has %d", len(row), len(header))
	}
	data := make(map[string]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i >= len(row) {
			break
		}
		cell := row[i]
		if format == FormatEU {
			if f, ok := model.LookupField(name); ok && f.Kind == model.KindFloat {
				cell = strings.ReplaceAll(cell, ",", ".")
			}
		}
		data[name] = cell
	}
	return model.FromText(data)
}

// ReadRecord reads a header line followed by one data row from r. Further
// rows are ignored; their count is returned so callers can report them.
func ReadRecord(ctx context.Context, r io.Reader, format Format) (model.Record, int, error) {
	reader := csv.NewReader(r)
	reader.Comma = format.Delimiter()
	reader.FieldsPerRecord = -1

	var header, row []string
	extra := 0
	for {
		if ctx.Err() != nil {
			return model.Record{}, 0, eris.Wrap(ctx.Err(), "csvrow: context cancelled")
		}
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Record{}, 0, eris.Wrap(err, "csvrow: read row")
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
		return model.Record{}, 0, eris.New("csvrow: missing header row")
	}
	if row == nil {
		return model.Record{}, 0, eris.New("csvrow: missing data row")
	}

	rec, err := ParseRow(header, row, format)
	if err != nil {
		return model.Record{}, 0, eris.Wrap(err, "csvrow: parse row")
	}
	return rec, extra, nil
}
