package hazard

import (
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/ml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderPreview writes the first n samples as a table.
func RenderPreview(w io.Writer, samples []domain.HazardSample, n int) error {
	t := newTable()
	t.AppendHeader(table.Row{"#", colState, colAnnualRain, colTemp, colHumidity, colCoastal, colMountainous, colLabel})
	for i, s := range samples[:min(n, len(samples))] {
		t.AppendRow(table.Row{i, s.State, s.AvgAnnualRainMM, s.AvgTempC, s.AvgHumidityPct, s.Coastal, s.Mountainous, s.Label})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// RenderReport writes split sizes, test accuracy and the per-class report.
func RenderReport(w io.Writer, r *Result) error {
	summary := newTable()
	summary.AppendRows([]table.Row{
		{"Train size", r.TrainSize},
		{"Test size", r.TestSize},
		{"Test accuracy", fmt.Sprintf("%.3f", r.Report.Accuracy)},
	})
	if _, err := fmt.Fprintln(w, summary.Render()); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, ReportTable(r.Report))
	return err
}

// ReportTable renders a classification report in the familiar
// precision/recall/f1-score/support layout.
func ReportTable(rep ml.Report) string {
	t := newTable()
	t.AppendHeader(table.Row{"", "precision", "recall", "f1-score", "support"})
	for _, c := range rep.Classes {
		t.AppendRow(metricsRow(c))
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"accuracy", "", "", score(rep.Accuracy), rep.Total})
	t.AppendRow(metricsRow(rep.MacroAvg))
	t.AppendRow(metricsRow(rep.WeightedAvg))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return t.Render()
}

func metricsRow(c ml.ClassMetrics) table.Row {
	return table.Row{c.Label, score(c.Precision), score(c.Recall), score(c.F1), c.Support}
}

func score(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}
