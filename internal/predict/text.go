package predict

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// delimitedColumns is the header of the delimited-text export.
var delimitedColumns = []string{
	"subjectId",
	"timestamp",
	"category",
	"category_likelihood",
	"product",
	"product_likelihood",
	"explanation",
}

// explanationSep joins a category's explanation lines in one field.
const explanationSep = " | "

// ToDelimitedText renders one line per (category, product) pair under a
// fixed header. Explanation text is quoted but not escaped, so embedded
// quotes or commas pass through verbatim. Categories without products
// produce no lines.
func ToDelimitedText(result *model.FilteredResult) string {
	lines := []string{strings.Join(delimitedColumns, ",")}
	for _, row := range delimitedRows(result) {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

// delimitedRows builds the data rows shared by the text and workbook exports.
// The explanation field carries its surrounding quotes.
func delimitedRows(result *model.FilteredResult) [][]string {
	if result == nil {
		return nil
	}
	ts := formatTimestamp(result.Meta.GeneratedAt)

	var rows [][]string
	for _, c := range result.Categories {
		expl := `"` + strings.Join(c.Explanation, explanationSep) + `"`
		for _, p := range c.Products {
			rows = append(rows, []string{
				result.Meta.SubjectID,
				ts,
				c.Name,
				formatLikelihood(c.Likelihood),
				p.Name,
				formatLikelihood(p.Likelihood),
				expl,
			})
		}
	}
	return rows
}

// formatLikelihood prints the shortest decimal that round-trips, e.g. 0.3.
func formatLikelihood(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ToStructuredText renders result as JSON with a two-space indent. The same
// text is used for file export, clipboard copy and the HTTP API.
func ToStructuredText(result *model.FilteredResult) (string, error) {
	if result == nil {
		return "", eris.New("predict: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "predict: marshal json")
	}
	return string(b), nil
}

// ParseStructuredText is the inverse of ToStructuredText.
func ParseStructuredText(text string) (*model.FilteredResult, error) {
	var res model.FilteredResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return nil, eris.Wrap(err, "predict: unmarshal json")
	}
	return &res, nil
}

// ToYAML renders result as a YAML document.
func ToYAML(result *model.FilteredResult) (string, error) {
	if result == nil {
		return "", eris.New("predict: nil result")
	}
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return "", eris.Wrap(err, "predict: marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return "", eris.Wrap(err, "predict: close yaml encoder")
	}
	return sb.String(), nil
}
