package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openExport(t *testing.T, b []byte) (*excelize.File, string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f, f.GetSheetList()[0]
}

// findRow returns the 1-based row whose first non-empty cells contain text.
func findRow(t *testing.T, f *excelize.File, sheet, text string) (int, []string) {
	t.Helper()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows() error: %v", err)
	}
	for i, r := range rows {
		for _, c := range r {
			if c == text {
				return i + 1, r
			}
		}
	}
	t.Fatalf("no row contains %q", text)
	return 0, nil
}

func TestGenerateEstimateExcel_Basic(t *testing.T) {
	result, err := GenerateEstimateExcel(sampleExportData())
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}
	f, sheet := openExport(t, result)

	if sheet != "Structural BOQ" {
		t.Errorf("expected sheet name 'Structural BOQ', got %q", sheet)
	}
	if title, _ := f.GetCellValue(sheet, "A1"); title != "Structural BOQ" {
		t.Errorf("expected title 'Structural BOQ', got %q", title)
	}

	_, header := findRow(t, f, sheet, "Material")
	if len(header) < 5 {
		t.Errorf("group header row too short: %v", header)
	}
	findRow(t, f, sheet, "Scope of Works")
	findRow(t, f, sheet, "Earthworks")
	findRow(t, f, sheet, "Concrete")

	_, grand := findRow(t, f, sheet, "GRAND TOTAL")
	if grand[len(grand)-1] != "550" {
		t.Errorf("grand total value = %q, want 550", grand[len(grand)-1])
	}
	_, markup := findRow(t, f, sheet, "MARKUP (10%)")
	if markup[len(markup)-1] != "50" {
		t.Errorf("markup value = %q, want 50", markup[len(markup)-1])
	}
}

func TestGenerateEstimateExcel_Empty(t *testing.T) {
	data := BuildExportData(NewTable("t", nil), ExportMeta{Title: "Empty"})

	result, err := GenerateEstimateExcel(data)
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateEstimateExcel() returned empty bytes")
	}
}

func TestGenerateEstimateExcel_LongTitle(t *testing.T) {
	data := sampleExportData()
	data.Title = "This is a very long title that exceeds thirty one characters"

	result, err := GenerateEstimateExcel(data)
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}
	_, sheet := openExport(t, result)
	if len([]rune(sheet)) > 31 {
		t.Errorf("sheet name %q longer than 31 characters", sheet)
	}
}

func TestGenerateEstimateExcel_SanitizesFormulas(t *testing.T) {
	table := NewTable("t", nil)
	r := regular(1, 10, 0)
	r.ScopeOfWorks = "=HYPERLINK(\"http://x\")"
	table.Rows = Rows{r}

	result, err := GenerateEstimateExcel(BuildExportData(table.Recalculated(), ExportMeta{Title: "T"}))
	if err != nil {
		t.Fatalf("GenerateEstimateExcel() error = %v", err)
	}
	f, sheet := openExport(t, result)
	findRow(t, f, sheet, "'=HYPERLINK(\"http://x\")")
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
	}
	for _, tt := range tests {
		if got := sanitizeExcelCell(tt.in); got != tt.want {
			t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
