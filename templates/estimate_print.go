// Package templates renders HTML views of estimate tables.
package templates

//go:generate templ generate

import (
	"strings"

	"costestimator/services"
)

const printCSS = `body{font-family:Arial,Helvetica,sans-serif;font-size:11px;margin:24px;color:#222}
h1{font-size:18px;margin:0 0 4px}
.meta{color:#555;margin-bottom:12px}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #999;padding:3px 5px}
th{background:#333;color:#fff}
td.num{text-align:right}
tr.title td{font-weight:bold}
tr.subtotal td{font-weight:bold;background:#e8e8e8}
tr.summary td{font-weight:bold;background:#d9e1f2}
@media print{body{margin:0}}`

const printStyle = "<style>" + printCSS + "</style>"

// printMeta joins the non-empty heading fields into one line.
func printMeta(m services.ExportMeta) string {
	var parts []string
	if m.ProjectName != "" {
		parts = append(parts, "Project: "+m.ProjectName)
	}
	if m.ClientName != "" {
		parts = append(parts, "Client: "+m.ClientName)
	}
	if m.ReferenceNumber != "" {
		parts = append(parts, "Ref: "+m.ReferenceNumber)
	}
	if m.CreatedDate != "" {
		parts = append(parts, "Date: "+m.CreatedDate)
	}
	return strings.Join(parts, " · ")
}

// summaryColspan is the width of the label cell of a summary line; the
// amount takes the last column.
func summaryColspan(data services.ExportData) int {
	return max(len(data.Columns)-1, 1)
}

type headerCell struct {
	text    string
	colspan int
	rowspan int
}

// groupHeaderCells builds the first row of a two-level header. Ungrouped
// columns span both rows; each run of columns sharing a group collapses into
// one cell spanning the run.
func groupHeaderCells(cols []services.ExportColumn) []headerCell {
	var cells []headerCell
	for i := 0; i < len(cols); {
		c := cols[i]
		if c.Group == "" {
			cells = append(cells, headerCell{text: c.Header, colspan: 1, rowspan: 2})
			i++
			continue
		}
		j := i
		for j < len(cols) && cols[j].Group == c.Group {
			j++
		}
		cells = append(cells, headerCell{text: c.Group, colspan: j - i, rowspan: 1})
		i = j
	}
	return cells
}

// sectionCell is the text of column c on a section's title row.
func sectionCell(c services.ExportColumn, sec services.ExportSection) string {
	switch c.Field {
	case services.FieldID:
		return sec.Number
	case services.FieldScopeOfWorks:
		return sec.Title
	}
	return ""
}
