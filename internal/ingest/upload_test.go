package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/adtarget-cli/internal/apperr"
	"github.com/sells-group/adtarget-cli/internal/model"
)

const sampleJSON = `[ {"url": "https://example.com/product/123", "timestamp": "2025-09-28T10:00:00Z" } ]`

func TestReadUpload_JSON(t *testing.T) {
	up, err := ReadUpload("history.json", strings.NewReader(sampleJSON), 0)
	require.NoError(t, err)
	assert.Equal(t, "history.json", up.Name)
	assert.Equal(t, model.UploadFormatJSON, up.Format)
	assert.Equal(t, int64(len(sampleJSON)), up.Size)
	assert.Len(t, up.Digest, 64)
	assert.Equal(t, sampleJSON, up.Content)
}

func TestReadUpload_CSVUpperCaseExt(t *testing.T) {
	up, err := ReadUpload("dir/History.CSV", strings.NewReader("url\nhttps://a.example\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, model.UploadFormatCSV, up.Format)
	assert.Equal(t, "History.CSV", up.Name)
}

func TestReadUpload_ContentNotParsed(t *testing.T) {
	// Malformed JSON is accepted: content is carried, never parsed.
	up, err := ReadUpload("h.json", strings.NewReader("{not json"), 0)
	require.NoError(t, err)
	assert.Equal(t, "{not json", up.Content)
}

func TestReadUpload_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		max     int64
	}{
		{"bad extension", "history.txt", "x", 0},
		{"no extension", "history", "x", 0},
		{"empty", "history.csv", "", 0},
		{"too large", "history.csv", "abcdef", 5},
		{"not utf8", "history.csv", "\xff\xfe\xfd", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadUpload(tt.file, strings.NewReader(tt.content), tt.max)
			require.Error(t, err)
			assert.True(t, apperr.IsInputInvalid(err), err.Error())
		})
	}
}

func TestReadUpload_ExactlyAtLimit(t *testing.T) {
	up, err := ReadUpload("h.csv", strings.NewReader("abcde"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), up.Size)
}

func TestReadUploadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	up, err := ReadUploadFile(path, 0)
	require.NoError(t, err)
	assert.Equal(t, "history.json", up.Name)

	_, err = ReadUploadFile(filepath.Join(t.TempDir(), "missing.json"), 0)
	require.Error(t, err)
	assert.False(t, apperr.IsInputInvalid(err))
}

func TestFormatFor(t *testing.T) {
	f, ok := FormatFor("a.JSON")
	assert.True(t, ok)
	assert.Equal(t, model.UploadFormatJSON, f)
	_, ok = FormatFor("a.xlsx")
	assert.False(t, ok)
}
