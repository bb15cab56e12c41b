package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/footprint-cli/internal/csvrow"
	"github.com/sells-group/footprint-cli/internal/model"
)

// stringSetting returns the flag value when the user set it, otherwise the
// configured value.
func stringSetting(cmd *cobra.Command, flag, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(flag) {
		return flagVal
	}
	return cfgVal
}

// openOutput returns the writer for path, or the command's stdout when path
// is empty. The returned close func is always non-nil.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

// writeRecord renders r as a CSV line, preceded by the header line when
// header is true.
func writeRecord(w io.Writer, r model.Record, format csvrow.Format, header bool) error {
	if header {
		line, err := csvrow.Headers(format)
		if err != nil {
			return eris.Wrap(err, "render header")
		}
		if _, err := io.WriteString(w, line); err != nil {
			return eris.Wrap(err, "write header")
		}
	}
	line, err := csvrow.Row(r, format)
	if err != nil {
		return eris.Wrap(err, "render row")
	}
	if _, err := io.WriteString(w, line); err != nil {
		return eris.Wrap(err, "write row")
	}
	return nil
}
