package services

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// excelStyles are the style ids used by GenerateEstimateExcel.
type excelStyles struct {
	title, subtitle, header    int
	cell, number               int
	titleRow                   int
	subtotal, subtotalNumber   int
	summaryLabel, summaryValue int
}

// GenerateEstimateExcel renders the export data as a single-sheet workbook
// and returns the file contents.
func GenerateEstimateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 characters.
	sheetName := []rune(data.Title)
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	sheet := string(sheetName)
	if sheet == "" {
		sheet = "Estimate"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	ncols := max(len(data.Columns), 1)
	lastCol, _ := excelize.ColumnNumberToName(ncols)

	for i, c := range data.Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, excelColumnWidth(c)); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	st, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	// ── Heading ─────────────────────────────────────────────────────────

	type headingLine struct {
		text  string
		style int
	}
	heading := []headingLine{{data.Title, st.title}}
	if data.ProjectName != "" {
		line := "Project: " + data.ProjectName
		if data.ClientName != "" {
			line += " / Client: " + data.ClientName
		}
		heading = append(heading, headingLine{line, st.subtitle})
	}
	if data.ReferenceNumber != "" {
		heading = append(heading, headingLine{"Ref: " + data.ReferenceNumber, st.subtitle})
	}
	if data.CreatedDate != "" {
		heading = append(heading, headingLine{"Date: " + data.CreatedDate, st.subtitle})
	}

	row := 1
	for _, h := range heading {
		first, last := fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row)
		if ncols > 1 {
			if err := f.MergeCell(sheet, first, last); err != nil {
				return nil, fmt.Errorf("merge heading: %w", err)
			}
		}
		f.SetCellValue(sheet, first, sanitizeExcelCell(h.text))
		f.SetCellStyle(sheet, first, last, h.style)
		row++
	}
	row++

	// ── Column headers ──────────────────────────────────────────────────

	if data.HasGroups() {
		top, bottom := row, row+1
		for i := 0; i < len(data.Columns); {
			c := data.Columns[i]
			start, _ := excelize.CoordinatesToCellName(i+1, top)
			if c.Group == "" {
				end, _ := excelize.CoordinatesToCellName(i+1, bottom)
				f.MergeCell(sheet, start, end)
				f.SetCellValue(sheet, start, sanitizeExcelCell(c.Header))
				i++
				continue
			}
			j := i
			for j < len(data.Columns) && data.Columns[j].Group == c.Group {
				leaf, _ := excelize.CoordinatesToCellName(j+1, bottom)
				f.SetCellValue(sheet, leaf, sanitizeExcelCell(data.Columns[j].Header))
				j++
			}
			end, _ := excelize.CoordinatesToCellName(j, top)
			if j-i > 1 {
				f.MergeCell(sheet, start, end)
			}
			f.SetCellValue(sheet, start, sanitizeExcelCell(c.Group))
			i = j
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", top), fmt.Sprintf("%s%d", lastCol, bottom), st.header)
		row = bottom + 1
	} else {
		for i, c := range data.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheet, cell, sanitizeExcelCell(c.Header))
		}
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.header)
		row++
	}

	// ── Sections ────────────────────────────────────────────────────────

	idCol := slices.IndexFunc(data.Columns, func(c ExportColumn) bool { return c.Field == FieldID })
	scopeCol := slices.IndexFunc(data.Columns, func(c ExportColumn) bool { return c.Field == FieldScopeOfWorks })

	for _, sec := range data.Sections {
		if sec.Title != "" || sec.Number != "" {
			if idCol >= 0 {
				cell, _ := excelize.CoordinatesToCellName(idCol+1, row)
				f.SetCellValue(sheet, cell, sec.Number)
			}
			if scopeCol >= 0 {
				cell, _ := excelize.CoordinatesToCellName(scopeCol+1, row)
				f.SetCellValue(sheet, cell, sanitizeExcelCell(sec.Title))
			}
			f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.titleRow)
			row++
		}

		for _, r := range sec.Rows {
			textStyle, numberStyle := st.cell, st.number
			if r.Kind == RowSubtotal {
				textStyle, numberStyle = st.subtotal, st.subtotalNumber
			}
			for i, c := range r.Cells {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if c.Numeric {
					if c.Text != "" {
						f.SetCellValue(sheet, cell, c.Number)
					}
					f.SetCellStyle(sheet, cell, cell, numberStyle)
					continue
				}
				f.SetCellValue(sheet, cell, sanitizeExcelCell(c.Text))
				f.SetCellStyle(sheet, cell, cell, textStyle)
			}
			row++
		}
	}

	// ── Summary ─────────────────────────────────────────────────────────

	if len(data.Summary) > 0 {
		row++
		valueCol := max(ncols, 2)
		if i := slices.IndexFunc(data.Columns, func(c ExportColumn) bool { return c.Field == FieldTotalAmount }); i > 0 {
			valueCol = i + 1
		}
		for _, s := range data.Summary {
			label, _ := excelize.CoordinatesToCellName(valueCol-1, row)
			value, _ := excelize.CoordinatesToCellName(valueCol, row)
			f.SetCellValue(sheet, label, sanitizeExcelCell(s.Label))
			f.SetCellStyle(sheet, label, label, st.summaryLabel)
			f.SetCellValue(sheet, value, s.Amount)
			f.SetCellStyle(sheet, value, value, st.summaryValue)
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func excelColumnWidth(c ExportColumn) float64 {
	switch c.Field {
	case FieldID:
		return 6
	case FieldScopeOfWorks:
		return 40
	case FieldQuantity, FieldUnit:
		return 10
	}
	return 16
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var st excelStyles
	subtotalFill := excelize.Fill{Type: "pattern", Color: []string{"#E8E8E8"}, Pattern: 1}
	summaryFill := excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1}

	// numFmt 4 is the built-in "#,##0.00".
	defs := []struct {
		dst   *int
		name  string
		style *excelize.Style
	}{
		{&st.title, "title", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&st.subtitle, "subtitle", &excelize.Style{Font: &excelize.Font{Size: 11}}},
		{&st.header, "header", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thinBorders(),
		}},
		{&st.cell, "cell", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()}},
		{&st.number, "number", &excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), NumFmt: 4}},
		{&st.titleRow, "title row", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Border: thinBorders()}},
		{&st.subtotal, "subtotal", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Fill: subtotalFill, Border: thinBorders()}},
		{&st.subtotalNumber, "subtotal number", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 10}, Fill: subtotalFill, Border: thinBorders(), NumFmt: 4}},
		{&st.summaryLabel, "summary label", &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 11},
			Fill:      summaryFill,
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&st.summaryValue, "summary value", &excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Fill: summaryFill, NumFmt: 4}},
	}
	for _, d := range defs {
		id, err := f.NewStyle(d.style)
		if err != nil {
			return st, fmt.Errorf("create %s style: %w", d.name, err)
		}
		*d.dst = id
	}
	return st, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
