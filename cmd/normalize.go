package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/footprint-cli/internal/csvrow"
	"github.com/sells-group/footprint-cli/internal/loader"
	"github.com/sells-group/footprint-cli/internal/model"
)

var (
	normalizeInput        string
	normalizeFormat       string
	normalizeOutputFormat string
	normalizeOutput       string
	normalizeSheet        string
	normalizeNoHeader     bool
	normalizeSourcePDF    string
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Re-emit a record with every field in schema order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		inFormat, err := csvrow.ParseFormat(stringSetting(cmd, "format", normalizeFormat, cfg.Input.Format))
		if err != nil {
			return eris.Wrap(err, "normalize")
		}
		outFormat, err := csvrow.ParseFormat(stringSetting(cmd, "output-format", normalizeOutputFormat, cfg.Output.Format))
		if err != nil {
			return eris.Wrap(err, "normalize")
		}

		rec, err := loader.Load(ctx, normalizeInput, loader.Options{
			Format: inFormat,
			XLSX:   loader.XLSXOptions{SheetName: stringSetting(cmd, "sheet", normalizeSheet, cfg.Input.SheetName)},
		})
		if err != nil {
			return eris.Wrap(err, "normalize")
		}

		if normalizeSourcePDF != "" {
			rec, err = fillSourcesHash(rec, normalizeSourcePDF)
			if err != nil {
				return eris.Wrap(err, "normalize")
			}
		}

		w, closeOut, err := openOutput(cmd, normalizeOutput)
		if err != nil {
			return eris.Wrap(err, "normalize")
		}
		defer closeOut() //nolint:errcheck

		header := cfg.Output.Header && !normalizeNoHeader
		if err := writeRecord(w, rec.Reorder(), outFormat, header); err != nil {
			return eris.Wrap(err, "normalize")
		}

		zap.L().Debug("normalize complete",
			zap.String("input", normalizeInput),
			zap.Int("fields", rec.Len()),
		)
		return nil
	},
}

// fillSourcesHash sets sources_hash to the digest of the PDF at path unless
// the record already carries one.
func fillSourcesHash(rec model.Record, path string) (model.Record, error) {
	current, err := rec.Get(model.FieldSourcesHash)
	if err != nil {
		return model.Record{}, err
	}
	if current.Text() != "" {
		zap.L().Debug("normalize: keeping existing sources_hash", zap.String("sources_hash", current.Text()))
		return rec, nil
	}

	sum, err := loader.HashFile(path)
	if err != nil {
		return model.Record{}, err
	}
	return rec.With(model.FieldSourcesHash, model.Str(sum))
}

func init() {
	normalizeCmd.Flags().StringVar(&normalizeInput, "input", "", "path to the CSV or XLSX record (required)")
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", "us", "CSV convention of the input: us or eu")
	normalizeCmd.Flags().StringVar(&normalizeOutputFormat, "output-format", "us", "CSV convention of the output: us or eu")
	normalizeCmd.Flags().StringVar(&normalizeOutput, "output", "", "write the row to file (default: stdout)")
	normalizeCmd.Flags().StringVar(&normalizeSheet, "sheet", "", "worksheet name for XLSX input (default: first sheet)")
	normalizeCmd.Flags().BoolVar(&normalizeNoHeader, "no-header", false, "omit the header line")
	normalizeCmd.Flags().StringVar(&normalizeSourcePDF, "source-pdf", "", "fill an empty sources_hash with the MD5 of this file")
	_ = normalizeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(normalizeCmd)
}
