package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/adtarget-cli/internal/export"
	"github.com/sells-group/adtarget-cli/internal/model"
)

var copyOpts predictFlags

var copyCmd = &cobra.Command{
	Use:   "copy",
	Short: "Score a subject and copy the JSON predictions to the clipboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("predict"); err != nil {
			return err
		}
		p, err := copyOpts.params(cmd)
		if err != nil {
			return err
		}

		res, err := predictOnce(cmd.Context(), newSource(), p, copyOpts.upload)
		if err != nil {
			return err
		}
		return copyResult(cmd.OutOrStdout(), export.SystemClipboard{}, res)
	},
}

func copyResult(w io.Writer, cb export.Clipboard, res *model.FilteredResult) error {
	copied, err := export.Copy(cb, res)
	if err != nil {
		return err
	}
	if !copied {
		fmt.Fprintln(w, "clipboard unavailable; nothing copied")
		return nil
	}
	fmt.Fprintf(w, "copied %d categories for %s\n", len(res.Categories), res.Meta.SubjectID)
	return nil
}

func init() {
	addPredictFlags(copyCmd, &copyOpts)
	rootCmd.AddCommand(copyCmd)
}
