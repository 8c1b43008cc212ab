package services

import (
	"fmt"
	"strings"
)

// ExportMeta carries the document heading of an exported table.
type ExportMeta struct {
	Title           string
	ProjectName     string
	ClientName      string
	ReferenceNumber string
	CreatedDate     string
}

// ExportColumn is one leaf column of the exported grid. Group is the header
// of the column group it belongs to, if any.
type ExportColumn struct {
	Field   string
	Header  string
	Group   string
	Numeric bool
}

// ExportCell holds the display text of a cell and, for numeric columns, its
// value.
type ExportCell struct {
	Text    string
	Number  float64
	Numeric bool
}

// ExportRow is one grid row laid out against ExportData.Columns.
type ExportRow struct {
	Kind  RowKind
	Cells []ExportCell
}

// ExportSection is a main-title row and the rows that follow it up to the
// next main title. Rows before the first title form a section without a
// title.
type ExportSection struct {
	Number string
	Title  string
	Rows   []ExportRow
}

// ExportSummaryLine is a total, markup or grand-total row.
type ExportSummaryLine struct {
	Kind   RowKind
	Label  string
	Amount float64
}

// ExportData holds all data needed to render a table as xlsx, PDF or HTML.
type ExportData struct {
	ExportMeta
	Columns       []ExportColumn
	Sections      []ExportSection
	Summary       []ExportSummaryLine
	MarkupPercent float64
}

// HasGroups reports whether any column belongs to a column group, in which
// case renderers print a two-level header.
func (d ExportData) HasGroups() bool {
	for _, c := range d.Columns {
		if c.Group != "" {
			return true
		}
	}
	return false
}

// BuildExportData lays out a recalculated table for export.
func BuildExportData(table Table, meta ExportMeta) ExportData {
	data := ExportData{
		ExportMeta:    meta,
		MarkupPercent: table.MarkupPercent,
	}
	if data.Title == "" {
		data.Title = "Estimate"
	}

	for _, c := range table.Columns {
		if len(c.Children) == 0 {
			data.Columns = append(data.Columns, ExportColumn{Field: c.Field, Header: c.HeaderName, Numeric: c.Numeric})
			continue
		}
		for _, child := range c.Children {
			data.Columns = append(data.Columns, ExportColumn{
				Field:   child.Field,
				Header:  child.HeaderName,
				Group:   c.HeaderName,
				Numeric: child.Numeric,
			})
		}
	}

	var current *ExportSection
	for _, r := range table.Rows {
		switch r.Kind {
		case RowMainTitle:
			data.Sections = append(data.Sections, ExportSection{Number: r.ID, Title: r.ScopeOfWorks})
			current = &data.Sections[len(data.Sections)-1]
			continue
		case RowTotal, RowMarkup, RowGrandTotal:
			data.Summary = append(data.Summary, ExportSummaryLine{
				Kind:   r.Kind,
				Label:  summaryLabel(r, table.MarkupPercent),
				Amount: r.TotalAmount,
			})
			continue
		}
		if current == nil {
			data.Sections = append(data.Sections, ExportSection{})
			current = &data.Sections[len(data.Sections)-1]
		}
		current.Rows = append(current.Rows, exportRow(r, data.Columns))
	}
	return data
}

func exportRow(r Row, cols []ExportColumn) ExportRow {
	out := ExportRow{Kind: r.Kind, Cells: make([]ExportCell, len(cols))}
	for i, c := range cols {
		cell := ExportCell{Text: r.Value(c.Field), Numeric: c.Numeric}
		if c.Numeric {
			cell.Number = r.Number(c.Field)
		}
		out.Cells[i] = cell
	}
	return out
}

func summaryLabel(r Row, markupPercent float64) string {
	label := strings.TrimSpace(r.ScopeOfWorks)
	if label == "" {
		label = r.Kind.defaultLabel()
	}
	if r.Kind == RowMarkup {
		pct := FormatAmount(markupPercent)
		if pct == "" {
			pct = "0"
		}
		label = fmt.Sprintf("%s (%s%%)", label, pct)
	}
	return label
}
