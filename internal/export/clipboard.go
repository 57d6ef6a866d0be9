package export

import (
	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
	"github.com/sells-group/adtarget-cli/internal/predict"
)

// Clipboard is a destination for copied text.
type Clipboard interface {
	Available() bool
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// Available reports whether a clipboard utility was found at startup.
func (SystemClipboard) Available() bool {
	return !clipboard.Unsupported
}

// WriteAll replaces the clipboard contents with text.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Copy writes the structured text of result to cb. It reports false without
// an error when cb is unavailable, so callers without a clipboard see a
// no-op. A nil result returns ErrNoResult.
func Copy(cb Clipboard, result *model.FilteredResult) (bool, error) {
	if result == nil {
		return false, apperr.ErrNoResult
	}
	if cb == nil || !cb.Available() {
		zap.L().Debug("export: clipboard unavailable, skipping copy")
		return false, nil
	}

	text, err := predict.ToStructuredText(result)
	if err != nil {
		return false, apperr.NewExportFailure("clipboard", err)
	}
	if err := cb.WriteAll(text); err != nil {
		return false, apperr.NewExportFailure("clipboard", err)
	}
	zap.L().Info("export: copied to clipboard", zap.Int("bytes", len(text)))
	return true, nil
}
