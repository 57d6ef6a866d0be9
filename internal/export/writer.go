// Package export performs the side effects of the dashboard's export
// buttons: writing encoded predictions to files and to the clipboard.
package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// Writer writes export files into Dir.
type Writer struct {
	Dir string
}

// NewWriter returns a Writer rooted at dir ("." when empty).
func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "."
	}
	return &Writer{Dir: dir}
}

// Filename returns the export file name for result in format f. The
// subject is normalized to NFC; it must not contain path separators.
func Filename(result *model.FilteredResult, f predict.Format) (string, error) {
	subject := norm.NFC.String(result.Meta.SubjectID)
	if strings.ContainsAny(subject, `/\`) || subject == "." || subject == ".." {
		return "", eris.Errorf("export: subject %q is not usable in a file name", subject)
	}
	return predict.ExportFilename(subject, f), nil
}

// Write encodes result as f and writes it to {Dir}/{subject}_predictions.{ext}.
// A nil result writes nothing and returns ErrNoResult.
func (w *Writer) Write(result *model.FilteredResult, f predict.Format) (string, error) {
	if result == nil {
		return "", apperr.ErrNoResult
	}

	name, err := Filename(result, f)
	if err != nil {
		return "", apperr.NewExportFailure(w.Dir, err)
	}
	path := filepath.Join(w.Dir, name)

	b, err := predict.Encode(result, f)
	if err != nil {
		return "", apperr.NewExportFailure(path, err)
	}

	if err := os.MkdirAll(w.Dir, dirMode); err != nil {
		return "", apperr.NewExportFailure(path, eris.Wrap(err, "export: create dir"))
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return "", apperr.NewExportFailure(path, eris.Wrap(err, "export: write file"))
	}

	zap.L().Info("export: wrote file",
		zap.String("path", path),
		zap.String("format", string(f)),
		zap.Int("bytes", len(b)),
	)
	return path, nil
}

// WriteAll writes result in every format concurrently and returns the paths
// in the order of formats.
func (w *Writer) WriteAll(ctx context.Context, result *model.FilteredResult, formats []predict.Format) ([]string, error) {
	if result == nil {
		return nil, apperr.ErrNoResult
	}

	paths := make([]string, len(formats))

	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return eris.Wrap(err, "export: cancelled")
			}
			p, err := w.Write(result, f)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
