package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

var reportColumns = []table.Column{
	{Title: "#", Width: 3},
	{Title: "input", Width: 18},
	{Title: "layer", Width: 8},
	{Title: "records", Width: 8},
	{Title: "segments", Width: 8},
	{Title: "drawn", Width: 7},
	{Title: "clipped", Width: 7},
	{Title: "nan", Width: 5},
	{Title: "skipped", Width: 7},
	{Title: "warnings", Width: 8},
	{Title: "error", Width: 24},
}

// reportRows has one row per plotted layer.
func (m *Model) reportRows() []table.Row {
	rows := make([]table.Row, 0, len(m.results))
	for i, r := range m.results {
		rp := r.Report
		warn := 0
		for _, e := range rp.Warnings {
			warn += e.Count
		}
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Input,
			r.Kind.String(),
			strconv.Itoa(rp.Records),
			strconv.Itoa(rp.Segments),
			strconv.Itoa(rp.Drawn.Total()),
			strconv.Itoa(rp.Clipped),
			strconv.Itoa(rp.NaN),
			strconv.Itoa(rp.Skipped),
			strconv.Itoa(warn),
			errText,
		})
	}
	return rows
}

// refreshReport rebuilds the table rows from the current results.
func (m *Model) refreshReport() {
	rows := m.reportRows()
	if len(rows) == 0 && m.showReport {
		m.showReport = false
		m.status = "nothing plotted yet"
	}
	// Avoid transient mismatch: clear rows, then set them
	m.tbl.SetRows(nil)
	m.tbl.SetRows(rows)
}

// warningLines lists the warning classes of all results.
func (m *Model) warningLines() []string {
	var out []string
	for _, r := range m.results {
		for _, e := range r.Report.Warnings {
			out = append(out, r.Input+" "+r.Kind.String()+": "+e.Warning.String()+" x"+strconv.Itoa(e.Count))
		}
	}
	return out
}
