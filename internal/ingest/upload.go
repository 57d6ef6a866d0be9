// Package ingest reads user-supplied browsing-history uploads. It checks
// that a file is a plausible upload and records its metadata; it does not
// parse the content, and nothing it returns feeds scoring.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
)

// DefaultMaxBytes caps upload size when the caller passes 0.
const DefaultMaxBytes = 10 << 20

// FormatFor maps a file name to its upload format.
func FormatFor(name string) (model.UploadFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return model.UploadFormatJSON, true
	case ".csv":
		return model.UploadFormatCSV, true
	default:
		return "", false
	}
}

// ReadUpload reads r as the text content of an upload called name.
func ReadUpload(name string, r io.Reader, maxBytes int64) (*model.Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	format, ok := FormatFor(name)
	if !ok {
		return nil, apperr.NewInputInvalid("unsupported file type "+filepath.Ext(name)+" (want .json or .csv)", nil)
	}

	// Read one byte past the limit to detect oversize input.
	b, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read upload")
	}
	if int64(len(b)) > maxBytes {
		return nil, apperr.NewInputInvalid("file exceeds size limit", nil)
	}
	if len(b) == 0 {
		return nil, apperr.NewInputInvalid("file is empty", nil)
	}
	if !utf8.Valid(b) {
		return nil, apperr.NewInputInvalid("file is not valid UTF-8 text", nil)
	}

	sum := sha256.Sum256(b)
	up := &model.Upload{
		Name:    filepath.Base(name),
		Format:  format,
		Size:    int64(len(b)),
		Digest:  hex.EncodeToString(sum[:]),
		Content: string(b),
	}
	zap.L().Debug("ingest: upload read",
		zap.String("name", up.Name),
		zap.String("format", string(up.Format)),
		zap.Int64("size", up.Size),
	)
	return up, nil
}

// ReadUploadFile reads the upload at path.
func ReadUploadFile(path string, maxBytes int64) (*model.Upload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close() //nolint:errcheck
	return ReadUpload(path, f, maxBytes)
}
