package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedImport = errors.New("unsupported file format: must be .csv or .xlsx")

// ImportIssue is a non-fatal problem found on one data row. Row is the
// 1-based line in the uploaded file, header included.
type ImportIssue struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is the outcome of reading an uploaded row file.
type ImportResult struct {
	TotalRows    int           `json:"total_rows"`
	Imported     int           `json:"imported"`
	Unrecognized []string      `json:"unrecognized_columns,omitempty"`
	Issues       []ImportIssue `json:"issues,omitempty"`
	Rows         []Row         `json:"-"`
}

const importKindField = "kind"

// importHeaders maps normalized header text to the row field it fills.
var importHeaders = map[string]string{
	"scope of works":     FieldScopeOfWorks,
	"scope":              FieldScopeOfWorks,
	"description":        FieldScopeOfWorks,
	"qty":                FieldQuantity,
	"quantity":           FieldQuantity,
	"unit":               FieldUnit,
	"uom":                FieldUnit,
	"material unit cost": FieldMaterialUnitCost,
	"material uc":        FieldMaterialUnitCost,
	"labor unit cost":    FieldLaborUnitCost,
	"labour unit cost":   FieldLaborUnitCost,
	"labor uc":           FieldLaborUnitCost,
	"kind":               importKindField,
	"type":               importKindField,
}

// importKinds accepts kind tags as well as their menu labels.
var importKinds = func() map[string]RowKind {
	m := make(map[string]RowKind)
	for _, opt := range RowKindOptions {
		m[strings.ToLower(string(opt.Kind))] = opt.Kind
		m[strings.ToLower(opt.Label)] = opt.Kind
	}
	m[""] = RowRegular
	return m
}()

// ImportRows reads estimation rows from a .csv or .xlsx file. The first row
// holds the headers, matched case-insensitively. Numbers are parsed leniently
// and never reject a row; unknown kinds are imported as regular rows and
// reported as issues. Blank lines are skipped.
func ImportRows(r io.Reader, fileName string) (*ImportResult, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		headers, dataRows, err = parseCSV(r)
	case ".xlsx":
		headers, dataRows, err = parseExcel(r)
	default:
		return nil, ErrUnsupportedImport
	}
	if err != nil {
		return nil, err
	}

	fields, unrecognized := mapImportHeaders(headers)
	recognized := false
	for _, f := range fields {
		if f != "" {
			recognized = true
			break
		}
	}
	if !recognized {
		return nil, fmt.Errorf("no recognized columns in header row %q", strings.Join(headers, ", "))
	}

	result := &ImportResult{Unrecognized: unrecognized}
	for i, cells := range dataRows {
		if blankRow(cells) {
			continue
		}
		result.TotalRows++
		line := i + 2

		row := NewRow(RowRegular)
		for col, field := range fields {
			if field == "" || col >= len(cells) {
				continue
			}
			val := strings.TrimSpace(cells[col])
			switch field {
			case importKindField:
				kind, ok := importKinds[strings.ToLower(val)]
				if !ok {
					result.Issues = append(result.Issues, ImportIssue{
						Row:     line,
						Field:   headers[col],
						Message: fmt.Sprintf("unknown row kind %q, imported as a regular row", val),
					})
					kind = RowRegular
				}
				row.Kind = kind
			case FieldScopeOfWorks:
				row.ScopeOfWorks = val
			case FieldUnit:
				row.Unit = val
			case FieldQuantity:
				row.Quantity = ParseAmount(val)
			case FieldMaterialUnitCost:
				row.MaterialUnitCost = ParseAmount(val)
			case FieldLaborUnitCost:
				row.LaborUnitCost = ParseAmount(val)
			}
		}
		if row.Kind.Computed() && row.ScopeOfWorks == "" {
			row.ScopeOfWorks = row.Kind.defaultLabel()
		}
		result.Rows = append(result.Rows, row)
	}
	result.Imported = len(result.Rows)
	return result, nil
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, errors.New("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, errors.New("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapImportHeaders returns the row field of each header column ("" when
// unknown) and the unknown headers.
func mapImportHeaders(headers []string) ([]string, []string) {
	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.Join(strings.Fields(strings.ToLower(h)), " ")
		norm = strings.TrimSuffix(norm, " *")
		if field, ok := importHeaders[norm]; ok {
			mapped[i] = field
			continue
		}
		if strings.TrimSpace(h) != "" {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
