package predict

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// Format is an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported encoding.
var Formats = []Format{FormatJSON, FormatCSV, FormatYAML, FormatXLSX}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", eris.Errorf("predict: unknown format %q", s)
	}
}

// Ext returns the file extension without a dot.
func (f Format) Ext() string {
	return string(f)
}

// ContentType returns the MIME type for HTTP downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatYAML:
		return "application/yaml; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Encode serializes result in the given format.
func Encode(result *model.FilteredResult, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		s, err := ToStructuredText(result)
		return []byte(s), err
	case FormatCSV:
		if result == nil {
			return nil, eris.New("predict: nil result")
		}
		return []byte(ToDelimitedText(result)), nil
	case FormatYAML:
		s, err := ToYAML(result)
		return []byte(s), err
	case FormatXLSX:
		return ToWorkbook(result)
	default:
		return nil, eris.Errorf("predict: unknown format %q", f)
	}
}

// ExportFilename returns "{subjectId}_predictions.{ext}". The subject is
// used verbatim.
func ExportFilename(subjectID string, f Format) string {
	return subjectID + "_predictions." + f.Ext()
}
