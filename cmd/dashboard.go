package main

import (
	"errors"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/export"
	"github.com/sells-group/adtarget-cli/internal/ingest"
	"github.com/sells-group/adtarget-cli/internal/tui"
)

var dashboardOpts predictFlags

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("dashboard"); err != nil {
			return err
		}
		p, err := dashboardOpts.params(cmd)
		if err != nil {
			return err
		}

		m := tui.New(ctx, newSource(), p, export.NewWriter(cfg.Export.OutputDir), export.SystemClipboard{})
		if dashboardOpts.upload != "" {
			up, err := ingest.ReadUploadFile(dashboardOpts.upload, cfg.Export.MaxUploadBytes)
			if err != nil {
				return err
			}
			m = m.WithUpload(up)
		}

		// The terminal belongs to the UI while it runs.
		restore := zap.ReplaceGlobals(zap.NewNop())
		defer restore()

		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return eris.Wrap(err, "dashboard: run")
		}
		return nil
	},
}

func init() {
	addPredictFlags(dashboardCmd, &dashboardOpts)
	rootCmd.AddCommand(dashboardCmd)
}
