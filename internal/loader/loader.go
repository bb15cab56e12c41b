// Package loader reads the single footprint record held by a CSV or XLSX file.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/footprint-cli/internal/csvrow"
	"github.com/sells-group/footprint-cli/internal/model"
)

// Options configures Load.
type Options struct {
	// Format is the CSV convention of the input. For XLSX input it only
	// controls how decimal commas in text cells are read.
	Format csvrow.Format
	XLSX   XLSXOptions
}

// Load reads the header and first data row of path and returns the typed
// record. Files ending in .xlsx are read as workbooks, anything else as CSV.
func Load(ctx context.Context, path string, opts Options) (model.Record, error) {
	var (
		rec   model.Record
		extra int
		err   error
	)

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		var header, row []string
		header, row, extra, err = readXLSXRows(ctx, path, opts.XLSX)
		if err != nil {
			return model.Record{}, eris.Wrapf(err, "loader: read %s", path)
		}
		rec, err = csvrow.ParseRow(header, row, opts.Format)
		if err != nil {
			return model.Record{}, eris.Wrapf(err, "loader: parse %s", path)
		}
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return model.Record{}, eris.Wrapf(openErr, "loader: open %s", path)
		}
		defer f.Close()

		rec, extra, err = csvrow.ReadRecord(ctx, f, opts.Format)
		if err != nil {
			return model.Record{}, eris.Wrapf(err, "loader: read %s", path)
		}
	}

	if extra > 0 {
		zap.L().Warn("loader: ignoring rows after the first record",
			zap.String("path", path),
			zap.Int("ignored", extra),
		)
	}
	return rec, nil
}
