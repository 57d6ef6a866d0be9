package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/dashboard"
	"github.com/sells-group/adtarget-cli/internal/ingest"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/scoring"
)

// predictFlags are the pipeline inputs shared by predict, export and copy.
// Unset flags fall back to the dashboard section of the config.
type predictFlags struct {
	subject   string
	threshold float64
	topK      int
	upload    string
}

func addPredictFlags(cmd *cobra.Command, f *predictFlags) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "subject identifier (default from config)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "minimum category likelihood, 0 to 1 (default from config)")
	cmd.Flags().IntVar(&f.topK, "top-k", 0, "maximum number of categories, 1 to 20 (default from config)")
	cmd.Flags().StringVar(&f.upload, "upload", "", "browsing-history file (.json or .csv) to attach")
}

// params merges the flags the user set over the configured defaults.
func (f *predictFlags) params(cmd *cobra.Command) (dashboard.Params, error) {
	p := dashboard.Params{
		SubjectID: cfg.Dashboard.SubjectID,
		Threshold: cfg.Dashboard.Threshold,
		TopK:      cfg.Dashboard.TopK,
		Explain:   cfg.Dashboard.Explain,
	}
	if cmd.Flags().Changed("subject") {
		p.SubjectID = f.subject
	}
	if cmd.Flags().Changed("threshold") {
		if f.threshold < 0 || f.threshold > 1 {
			return p, apperr.NewInputInvalid("--threshold must be between 0 and 1", nil)
		}
		p.Threshold = f.threshold
	}
	if cmd.Flags().Changed("top-k") {
		if f.topK < dashboard.MinTopK || f.topK > dashboard.MaxTopK {
			return p, apperr.NewInputInvalid("--top-k must be between 1 and 20", nil)
		}
		p.TopK = f.topK
	}
	return p, nil
}

// newSource builds the configured score source.
func newSource() scoring.Source {
	return scoring.NewDelayed(scoring.NewFixture(cfg.Scoring.ModelVersion), cfg.Scoring.Delay)
}

// predictOnce runs one prediction through a fresh session and returns the
// filtered view.
func predictOnce(ctx context.Context, src scoring.Source, p dashboard.Params, uploadPath string) (*model.FilteredResult, error) {
	sess := dashboard.NewSession(src, p)

	if uploadPath != "" {
		up, err := ingest.ReadUploadFile(uploadPath, cfg.Export.MaxUploadBytes)
		if err != nil {
			return nil, err
		}
		sess.Dispatch(dashboard.SelectUpload{Upload: up})
		zap.L().Info("upload attached",
			zap.String("name", up.Name),
			zap.String("format", string(up.Format)),
			zap.Int64("size", up.Size),
		)
	}

	return sess.Predict(ctx)
}
