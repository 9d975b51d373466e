package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JonMunkholm/dqi/internal/dqi"
)

// renderReport prints a report as a summary, the dimension scores and the
// recommendations.
func renderReport(w io.Writer, r *dqi.Report) {
	renderSummary(w, r)
	fmt.Fprintln(w)
	renderDimensions(w, r)

	if len(r.Recommendations) > 0 {
		fmt.Fprintln(w)
		renderRecommendations(w, r.Recommendations)
	}

	fmt.Fprintf(w, "\n%s\n", r.RiskSummary)
}

func renderSummary(w io.Writer, r *dqi.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Data Quality Report")

	t.AppendRows([]table.Row{
		{"File", r.Metadata.FileName},
		{"Rows", fmt.Sprintf("%d (%d dropped)", r.Metadata.RowCount, r.Metadata.DroppedRows)},
		{"Columns", r.Metadata.ColumnCount},
		{"Score", fmt.Sprintf("%d/100 (grade %s)", r.Composite.Score, r.Composite.Grade)},
		{"Confidence", fmt.Sprintf("%d%%", r.Composite.Confidence)},
		{"Compliance", r.ComplianceStatus},
		{"Evaluation", r.AuditTrail.EvaluationID},
	})
	t.Render()
}

func renderDimensions(w io.Writer, r *dqi.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Dimension", "Score", "Weight", "Findings"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: 70},
	})

	for _, d := range r.Dimensions {
		if !d.Applicable {
			t.AppendRow(table.Row{d.Name, "n/a", "-", "not applicable to this dataset"})
			continue
		}
		findings := "-"
		if len(d.Findings) > 0 {
			findings = strings.Join(d.Findings, "\n")
		}
		t.AppendRow(table.Row{d.Name, d.Score, fmt.Sprintf("%.2f", d.Weight), findings})
	}
	t.Render()
}

func renderRecommendations(w io.Writer, recs []dqi.Recommendation) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Recommendations")
	t.AppendHeader(table.Row{"ID", "Priority", "Title", "Gain"})

	for _, rec := range recs {
		t.AppendRow(table.Row{rec.ID, rec.Priority, rec.Title, fmt.Sprintf("+%d", rec.ExpectedImprovement)})
	}
	t.Render()
}
