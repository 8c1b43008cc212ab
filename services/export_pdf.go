package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfSubtotalBg = &props.Color{Red: 232, Green: 232, Blue: 232}
	pdfSummaryBg  = &props.Color{Red: 217, Green: 225, Blue: 242}
	pdfMutedText  = &props.Color{Red: 80, Green: 80, Blue: 80}
)

// GenerateEstimatePDF renders the export data as a landscape A4 PDF. The
// grid is sized to the number of leaf columns.
func GenerateEstimatePDF(data ExportData) ([]byte, error) {
	widths := pdfColumnWidths(data.Columns)
	grid := 0
	for _, w := range widths {
		grid += w
	}
	if grid == 0 {
		grid = 12
	}

	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(grid).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addPDFHeading(m, data, grid)
	addPDFColumnHeader(m, data, widths)
	for _, sec := range data.Sections {
		addPDFSection(m, data, sec, widths)
	}
	addPDFSummary(m, data, widths, grid)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func pdfColumnWidths(cols []ExportColumn) []int {
	widths := make([]int, len(cols))
	for i, c := range cols {
		switch c.Field {
		case FieldID:
			widths[i] = 1
		case FieldScopeOfWorks:
			widths[i] = 5
		default:
			widths[i] = 2
		}
	}
	return widths
}

func addPDFHeading(m core.Maroto, data ExportData, grid int) {
	m.AddRows(
		row.New(12).Add(
			col.New(grid).Add(
				text.New(data.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
			),
		),
	)

	var left []string
	if data.ProjectName != "" {
		left = append(left, "Project: "+data.ProjectName)
	}
	if data.ClientName != "" {
		left = append(left, "Client: "+data.ClientName)
	}
	if data.ReferenceNumber != "" {
		left = append(left, "Reference: "+data.ReferenceNumber)
	}
	half := grid / 2
	m.AddRows(
		row.New(8).Add(
			col.New(half).Add(
				text.New(strings.Join(left, "   "), props.Text{Size: 9, Align: align.Left, Color: pdfMutedText}),
			),
			col.New(grid-half).Add(
				text.New("Date: "+data.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: pdfMutedText}),
			),
		),
	)
	m.AddRows(row.New(4))
}

func addPDFColumnHeader(m core.Maroto, data ExportData, widths []int) {
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}

	cols := make([]core.Col, len(data.Columns))
	for i, c := range data.Columns {
		label := c.Header
		if c.Group != "" {
			label = c.Group + " " + c.Header
		}
		cols[i] = col.New(widths[i]).Add(text.New(label, headerText)).WithStyle(headerCell)
	}
	m.AddRows(row.New(10).Add(cols...))
}

func addPDFSection(m core.Maroto, data ExportData, sec ExportSection, widths []int) {
	if sec.Title != "" || sec.Number != "" {
		bold := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}
		cols := make([]core.Col, len(data.Columns))
		for i, c := range data.Columns {
			var label string
			switch c.Field {
			case FieldID:
				label = sec.Number
			case FieldScopeOfWorks:
				label = sec.Title
			}
			cols[i] = col.New(widths[i]).Add(text.New(label, bold))
		}
		m.AddRows(row.New(7).Add(cols...))
	}

	for _, r := range sec.Rows {
		base := props.Text{Size: 7, Align: align.Left}
		var style *props.Cell
		if r.Kind == RowSubtotal {
			base.Style = fontstyle.Bold
			style = &props.Cell{BackgroundColor: pdfSubtotalBg}
		}
		cols := make([]core.Col, len(r.Cells))
		for i, cell := range r.Cells {
			t := base
			if cell.Numeric {
				t.Align = align.Right
			}
			c := col.New(widths[i]).Add(text.New(cell.Text, t))
			if style != nil {
				c = c.WithStyle(style)
			}
			cols[i] = c
		}
		m.AddRows(row.New(7).Add(cols...))
	}
}

func addPDFSummary(m core.Maroto, data ExportData, widths []int, grid int) {
	if len(data.Summary) == 0 {
		return
	}
	m.AddRows(row.New(6))

	valueWidth := 2
	if n := len(widths); n > 0 {
		valueWidth = widths[n-1]
	}
	labelWidth := max(grid-valueWidth, 1)
	cell := &props.Cell{BackgroundColor: pdfSummaryBg}
	style := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	for _, s := range data.Summary {
		m.AddRows(
			row.New(8).Add(
				col.New(labelWidth).Add(text.New(s.Label, style)).WithStyle(cell),
				col.New(valueWidth).Add(text.New(FormatAmount(s.Amount), style)).WithStyle(cell),
			),
		)
	}
}
