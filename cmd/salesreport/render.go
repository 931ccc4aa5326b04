package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"salesreport/internal/dataprocessing"
	"salesreport/internal/operations"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

// renderRun prints the step, source, summary and artifact tables of a run
func renderRun(w io.Writer, run *operations.RunState) {
	steps := newTable(w, fmt.Sprintf("Run %s (%s): %s", run.ID, run.Command, run.Status))
	steps.AppendHeader(table.Row{"Step", "Status", "Duration", "Message"})
	for _, s := range run.Steps {
		steps.AppendRow(table.Row{s.Name, s.GetStatus(), s.Duration().Round(time.Millisecond), s.Message})
	}
	steps.Render()

	if len(run.Results) > 0 {
		sources := newTable(w, "Sources")
		sources.AppendHeader(table.Row{"Source", "Status", "Rows In", "Rows Out", "Removed", "Dates Nulled"})
		for _, r := range run.Results {
			if r.Status == operations.SourceStatusFailed {
				sources.AppendRow(table.Row{r.Source, r.Status, "", "", "", r.Error})
				continue
			}
			sources.AppendRow(table.Row{r.Source, r.Status, r.Stats.InputRows, r.Stats.OutputRows, r.Stats.Removed(), r.Stats.NulledDates})
		}
		sources.Render()
	}

	if run.Analysis != nil {
		summary := newTable(w, "Summary")
		summary.AppendHeader(table.Row{"Metric", "Value"})
		for _, m := range run.Analysis.Summary.Metrics() {
			summary.AppendRow(table.Row{m[0], m[1]})
		}
		for _, s := range run.Analysis.Skipped {
			summary.AppendRow(table.Row{"Skipped " + s.Report, s.Reason})
		}
		summary.Render()
	}

	if len(run.Artifacts) > 0 {
		artifacts := newTable(w, "Outputs")
		artifacts.AppendHeader(table.Row{"Kind", "Report", "Rows", "Path"})
		for _, a := range run.Artifacts {
			rows := ""
			if a.Rows > 0 {
				rows = fmt.Sprint(a.Rows)
			}
			artifacts.AppendRow(table.Row{a.Kind, a.Report, rows, a.Path})
		}
		artifacts.Render()
	}
}

// renderInspection prints the profile of one raw source
func renderInspection(w io.Writer, in *dataprocessing.Inspection) {
	columns := newTable(w, fmt.Sprintf("%s: %d rows x %d columns, %d missing values, %d malformed lines",
		in.Source, in.Rows, len(in.Columns), in.MissingTotal(), in.SkippedLines))
	columns.AppendHeader(table.Row{"Column", "Maps To", "Kind", "Non-Null", "Missing"})
	for _, c := range in.Columns {
		columns.AppendRow(table.Row{c.Name, c.Canonical, c.Kind, c.NonNull, c.Missing})
	}
	columns.Render()

	if len(in.Head) == 0 {
		fmt.Fprintln(w)
		return
	}

	head := newTable(w, fmt.Sprintf("First %d rows", len(in.Head)))
	header := make(table.Row, len(in.Columns))
	for i, c := range in.Columns {
		header[i] = c.Name
	}
	head.AppendHeader(header)
	for _, row := range in.Head {
		r := make(table.Row, len(row))
		for i, v := range row {
			r[i] = v
		}
		head.AppendRow(r)
	}
	head.Render()
	fmt.Fprintln(w)
}
