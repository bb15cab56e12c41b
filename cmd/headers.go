package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/footprint-cli/internal/csvrow"
)

var headersFormat string

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Print the footprint CSV header line",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := csvrow.ParseFormat(stringSetting(cmd, "format", headersFormat, cfg.Output.Format))
		if err != nil {
			return eris.Wrap(err, "headers")
		}

		line, err := csvrow.Headers(format)
		if err != nil {
			return eris.Wrap(err, "headers")
		}
		_, err = io.WriteString(cmd.OutOrStdout(), line)
		return err
	},
}

func init() {
	headersCmd.Flags().StringVar(&headersFormat, "format", "us", "CSV convention: us or eu")
	rootCmd.AddCommand(headersCmd)
}
