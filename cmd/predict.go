package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

var (
	predictOpts   predictFlags
	predictFormat string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a subject and print the filtered predictions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}

		f, err := stdoutFormat(predictFormat)
		if err != nil {
			return err
		}
		p, err := predictOpts.params(cmd)
		if err != nil {
			return err
		}

		res, err := predictOnce(cmd.Context(), newSource(), p, predictOpts.upload)
		if err != nil {
			return err
		}
		return writePrediction(cmd.OutOrStdout(), res, f)
	},
}

// stdoutFormat parses a format that can be printed to a terminal.
func stdoutFormat(s string) (predict.Format, error) {
	f, err := predict.ParseFormat(s)
	if err != nil {
		return "", apperr.NewInputInvalid("--format", err)
	}
	if f == predict.FormatXLSX {
		return "", apperr.NewInputInvalid("--format xlsx is binary; use the export command", nil)
	}
	return f, nil
}

func writePrediction(w io.Writer, res *model.FilteredResult, f predict.Format) error {
	b, err := predict.Encode(res, f)
	if err != nil {
		return eris.Wrap(err, "predict: encode")
	}
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	if _, err := w.Write(b); err != nil {
		return eris.Wrap(err, "predict: write output")
	}
	return nil
}

func init() {
	addPredictFlags(predictCmd, &predictOpts)
	predictCmd.Flags().StringVar(&predictFormat, "format", "json", "output format: json, yaml or csv")
	rootCmd.AddCommand(predictCmd)
}
