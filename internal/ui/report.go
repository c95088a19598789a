// Package ui renders analysis results for the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/rankpulse/rankpulse/internal/application/pipeline"
	"github.com/rankpulse/rankpulse/internal/domain/series"
)

var (
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
	emphasis = color.New(color.Bold)
)

// Render writes the period table, the interval narrative and the summary
// block to w.
func Render(w io.Writer, res *pipeline.Result) {
	renderTable(w, res)
	renderNarrative(w, res)
	renderSummary(w, res)
}

func renderTable(w io.Writer, res *pipeline.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PERIOD\tPAGES\tTRAFFIC\tADDED\tPAGE Δ%\tTPP\tTPP MA\tSTATE")
	for _, rec := range res.Records {
		fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%+.0f\t%s\t%s\t%s\t%s\n",
			rec.PeriodStart.Format("2006-01-02"),
			rec.PageCount,
			rec.TrafficCount,
			rec.PagesAdded,
			formatFloat(rec.PageChangeRate, "%.2f"),
			formatFloat(rec.TrafficPerPage, "%.2f"),
			formatFloat(rec.TrafficPerPageMA, "%.2f"),
			stateLabel(rec.RankingState),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderNarrative(w io.Writer, res *pipeline.Result) {
	emphasis.Fprintln(w, "Ranking State Report")
	if len(res.Narrative) == 0 {
		fmt.Fprintln(w, "No reportable intervals: not enough smoothed data in any segment.")
	}
	for _, line := range res.Narrative {
		fmt.Fprintf(w, "  - %s\n", boldMarkers(line))
	}
	fmt.Fprintln(w)
}

func renderSummary(w io.Writer, res *pipeline.Result) {
	emphasis.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  Page increase threshold, %s states: %s\n",
		positive.Sprint("Positive"), meanLabel(res.Summary.PositiveMean, res.Summary.PositiveCount))
	fmt.Fprintf(w, "  Page increase threshold, %s states: %s\n",
		negative.Sprint("Negative"), meanLabel(res.Summary.NegativeMean, res.Summary.NegativeCount))
}

func meanLabel(mean series.Float, count int) string {
	if mean.IsNull() {
		return "no data"
	}
	return fmt.Sprintf("%.2f%% (over %d periods)", mean.Value(), count)
}

func formatFloat(f series.Float, format string) string {
	if f.IsNull() {
		return "-"
	}
	return fmt.Sprintf(format, f.Value())
}

func stateLabel(s series.State) string {
	if s == series.StatePositive {
		return positive.Sprint(s)
	}
	return negative.Sprint(s)
}

// boldMarkers converts the narrative's **emphasis markers** to ANSI bold.
func boldMarkers(line string) string {
	parts := strings.Split(line, "**")
	for i := 1; i < len(parts); i += 2 {
		parts[i] = emphasis.Sprint(parts[i])
	}
	return strings.Join(parts, "")
}
