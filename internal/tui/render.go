package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sells-group/adtarget-cli/internal/model"
)

// Placeholder is shown in the results pane before the first run and after a
// clear.
const Placeholder = "No predictions yet. Run a prediction to see results here."

const barWidth = 20

// percent renders a likelihood as a whole percentage.
func percent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v*100)))
}

func bar(v float64) string {
	n := int(math.Round(v * barWidth))
	n = min(max(n, 0), barWidth)
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

// renderResult lays out a filtered result for the viewport. Explanations are
// included only when explain is set.
func renderResult(res *model.FilteredResult, explain bool, st Styles) string {
	if res == nil {
		return st.Muted.Render(Placeholder)
	}

	var sb strings.Builder
	sb.WriteString(st.Label.Render("Subject: "))
	sb.WriteString(st.Value.Render(res.Meta.SubjectID))
	sb.WriteString(st.Label.Render("  Model: "))
	sb.WriteString(res.Meta.ModelVersion)
	sb.WriteString(st.Label.Render("  Generated: "))
	sb.WriteString(res.Meta.GeneratedAt.UTC().Format(time.RFC3339))
	sb.WriteString("\n\n")

	if len(res.Categories) == 0 {
		sb.WriteString(st.Muted.Render("No categories pass the current threshold."))
		return sb.String()
	}

	for i, c := range res.Categories {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s %s\n",
			st.Category.Render(fmt.Sprintf("%-14s", c.Name)),
			st.Bar.Render(bar(c.Likelihood)),
			percent(c.Likelihood),
		)
		for _, p := range c.Products {
			fmt.Fprintf(&sb, "    %-18s %s\n", p.Name, percent(p.Likelihood))
		}
		if explain {
			for _, e := range c.Explanation {
				sb.WriteString(st.Explanation.Render("· " + e))
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
