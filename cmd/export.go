package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/export"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

var (
	exportOpts    predictFlags
	exportOut     string
	exportFormats string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Score a subject and write the predictions to files",
	Long:  "Writes {subject}_predictions.{ext} for each requested format into the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("out") {
			cfg.Export.OutputDir = exportOut
		}
		if err := cfg.Validate("export"); err != nil {
			return err
		}

		formats, err := parseFormats(exportFormats)
		if err != nil {
			return err
		}
		p, err := exportOpts.params(cmd)
		if err != nil {
			return err
		}

		res, err := predictOnce(cmd.Context(), newSource(), p, exportOpts.upload)
		if err != nil {
			return err
		}

		paths, err := export.NewWriter(cfg.Export.OutputDir).WriteAll(cmd.Context(), res, formats)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

// parseFormats parses a comma-separated format list, dropping duplicates.
func parseFormats(s string) ([]predict.Format, error) {
	var out []predict.Format
	seen := make(map[predict.Format]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		f, err := predict.ParseFormat(part)
		if err != nil {
			return nil, apperr.NewInputInvalid("--formats", err)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, apperr.NewInputInvalid("--formats must name at least one format", nil)
	}
	return out, nil
}

func init() {
	addPredictFlags(exportCmd, &exportOpts)
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output directory (default from config)")
	exportCmd.Flags().StringVar(&exportFormats, "formats", "json,csv", "comma-separated formats: json, csv, yaml, xlsx")
	rootCmd.AddCommand(exportCmd)
}
