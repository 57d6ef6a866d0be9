package predict

import (
	"bytes"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// WorkbookSheet is the name of the sheet written by ToWorkbook.
const WorkbookSheet = "predictions"

// ToWorkbook renders the same rows as ToDelimitedText into an XLSX workbook.
// Likelihoods are numeric cells and the explanation is stored unquoted.
func ToWorkbook(result *model.FilteredResult) ([]byte, error) {
	if result == nil {
		return nil, eris.New("predict: nil result")
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(WorkbookSheet)
	if err != nil {
		return nil, eris.Wrap(err, "predict: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range delimitedColumns {
		header.AddCell().SetString(col)
	}

	ts := formatTimestamp(result.Meta.GeneratedAt)
	for _, c := range result.Categories {
		expl := strings.Join(c.Explanation, explanationSep)
		for _, p := range c.Products {
			row := sheet.AddRow()
			row.AddCell().SetString(result.Meta.SubjectID)
			row.AddCell().SetString(ts)
			row.AddCell().SetString(c.Name)
			row.AddCell().SetFloat(c.Likelihood)
			row.AddCell().SetString(p.Name)
			row.AddCell().SetFloat(p.Likelihood)
			row.AddCell().SetString(expl)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "predict: write workbook")
	}
	return buf.Bytes(), nil
}
