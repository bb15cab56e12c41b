package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/footprint-cli/internal/csvrow"
	"github.com/sells-group/footprint-cli/internal/loader"
	"github.com/sells-group/footprint-cli/internal/merge"
)

var (
	mergeFirst        string
	mergeSecond       string
	mergePolicy       string
	mergeVerbose      int
	mergeFormat       string
	mergeOutputFormat string
	mergeOutput       string
	mergeReport       string
	mergeReportFormat string
	mergeSheet        string
	mergeNoHeader     bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two records of the same device into one row",
	Long: "Reads one record from --first and one from --second, merges them field by field " +
		"and writes the merged header and row. Conflicts are kept from the second record " +
		"unless --policy interactive is used.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		policy, err := merge.ParsePolicy(stringSetting(cmd, "policy", mergePolicy, cfg.Merge.Policy))
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		inFormat, err := csvrow.ParseFormat(stringSetting(cmd, "format", mergeFormat, cfg.Input.Format))
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		outFormat, err := csvrow.ParseFormat(stringSetting(cmd, "output-format", mergeOutputFormat, cfg.Output.Format))
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		reportFormat, err := merge.ParseReportFormat(stringSetting(cmd, "report-format", mergeReportFormat, cfg.Output.ReportFormat))
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		verbosity := cfg.Merge.Verbosity
		if cmd.Flags().Changed("verbose") {
			verbosity = mergeVerbose
		}

		loadOpts := loader.Options{
			Format: inFormat,
			XLSX:   loader.XLSXOptions{SheetName: stringSetting(cmd, "sheet", mergeSheet, cfg.Input.SheetName)},
		}
		first, err := loader.Load(ctx, mergeFirst, loadOpts)
		if err != nil {
			return eris.Wrap(err, "merge: first record")
		}
		second, err := loader.Load(ctx, mergeSecond, loadOpts)
		if err != nil {
			return eris.Wrap(err, "merge: second record")
		}

		opts := merge.Options{
			Policy:    policy,
			Verbosity: verbosity,
			Out:       cmd.ErrOrStderr(),
		}
		if policy == merge.PolicyInteractive {
			opts.Resolver = &merge.Prompt{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
		}

		res, err := merge.Merge(first, second, opts)
		if err != nil {
			return eris.Wrap(err, "merge")
		}

		w, closeOut, err := openOutput(cmd, mergeOutput)
		if err != nil {
			return eris.Wrap(err, "merge")
		}
		defer closeOut() //nolint:errcheck

		header := cfg.Output.Header && !mergeNoHeader
		if err := writeRecord(w, res.Merged.Reorder(), outFormat, header); err != nil {
			return eris.Wrap(err, "merge")
		}

		runID := uuid.NewString()
		if mergeReport != "" {
			if err := writeReport(cmd, merge.NewReport(runID, policy, res, first, second, time.Now().UTC()), reportFormat); err != nil {
				return eris.Wrap(err, "merge")
			}
		}

		zap.L().Info("merge complete",
			zap.String("run_id", runID),
			zap.String("policy", string(policy)),
			zap.Strings("conflicts", res.Conflicts),
			zap.String("resolution", string(res.Resolution)),
			zap.Int("from_first", len(res.Provenance.First)),
			zap.Int("from_second", len(res.Provenance.Second)),
		)
		return nil
	},
}

func writeReport(cmd *cobra.Command, report merge.Report, format merge.ReportFormat) error {
	w, closeReport, err := openOutput(cmd, mergeReport)
	if err != nil {
		return eris.Wrap(err, "open report")
	}
	if err := report.Write(w, format); err != nil {
		_ = closeReport()
		return eris.Wrap(err, "write report")
	}
	return closeReport()
}

func init() {
	mergeCmd.Flags().StringVar(&mergeFirst, "first", "", "path to the first CSV or XLSX record (required)")
	mergeCmd.Flags().StringVar(&mergeSecond, "second", "", "path to the second CSV or XLSX record (required)")
	mergeCmd.Flags().StringVar(&mergePolicy, "policy", "keep-second", "conflict policy: keep-second or interactive")
	mergeCmd.Flags().CountVarP(&mergeVerbose, "verbose", "v", "warn about close values (-v) and ignored fields (-vv)")
	mergeCmd.Flags().StringVar(&mergeFormat, "format", "us", "CSV convention of the inputs: us or eu")
	mergeCmd.Flags().StringVar(&mergeOutputFormat, "output-format", "us", "CSV convention of the output: us or eu")
	mergeCmd.Flags().StringVar(&mergeOutput, "output", "", "write the merged row to file (default: stdout)")
	mergeCmd.Flags().StringVar(&mergeReport, "report", "", "write the provenance report to file")
	mergeCmd.Flags().StringVar(&mergeReportFormat, "report-format", "yaml", "report encoding: yaml or json")
	mergeCmd.Flags().StringVar(&mergeSheet, "sheet", "", "worksheet name for XLSX input (default: first sheet)")
	mergeCmd.Flags().BoolVar(&mergeNoHeader, "no-header", false, "omit the header line")
	_ = mergeCmd.MarkFlagRequired("first")
	_ = mergeCmd.MarkFlagRequired("second")
	rootCmd.AddCommand(mergeCmd)
}
