package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestImportRows_CSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Kind,Scope of Works,Qty,Unit,Material Unit Cost,Labor Unit Cost,Remarks",
		"Main Title,Earthworks,,,,,",
		"regular,Excavation,2,cu.m,\"1,250.50\",300,check depth",
		",Backfill,abc,cu.m,100,,",
		",,,,,,",
		"subtotal,,,,,,",
		"bogus,Gravel,1,cu.m,10,5,",
	}, "\n")

	result, err := ImportRows(strings.NewReader(csvData), "rows.CSV")
	if err != nil {
		t.Fatalf("ImportRows() error: %v", err)
	}

	if result.TotalRows != 5 || result.Imported != 5 {
		t.Errorf("TotalRows/Imported = %d/%d, want 5/5", result.TotalRows, result.Imported)
	}
	if len(result.Unrecognized) != 1 || result.Unrecognized[0] != "Remarks" {
		t.Errorf("Unrecognized = %v, want [Remarks]", result.Unrecognized)
	}
	if len(result.Issues) != 1 || result.Issues[0].Row != 7 {
		t.Errorf("Issues = %+v, want one issue on line 7", result.Issues)
	}

	rows := result.Rows
	wantKinds := []RowKind{RowMainTitle, RowRegular, RowRegular, RowSubtotal, RowRegular}
	for i, k := range wantKinds {
		if rows[i].Kind != k {
			t.Errorf("row %d kind = %q, want %q", i, rows[i].Kind, k)
		}
		if rows[i].Key == "" {
			t.Errorf("row %d has no key", i)
		}
	}
	if rows[1].Quantity != 2 || rows[1].MaterialUnitCost != 1250.5 || rows[1].LaborUnitCost != 300 {
		t.Errorf("row 1 numbers = %v/%v/%v", rows[1].Quantity, rows[1].MaterialUnitCost, rows[1].LaborUnitCost)
	}
	if rows[2].Quantity != 0 {
		t.Errorf("unparseable qty = %v, want 0", rows[2].Quantity)
	}
	if rows[3].ScopeOfWorks != "SUBTOTAL" {
		t.Errorf("subtotal label = %q, want SUBTOTAL", rows[3].ScopeOfWorks)
	}
}

func TestImportRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Description", "Quantity", "UOM", "Material UC", "Labour Unit Cost"})
	f.SetSheetRow(sheet, "A2", &[]any{"Formworks", 12, "sq.m", 620.5, 380})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result, err := ImportRows(&buf, "rows.xlsx")
	if err != nil {
		t.Fatalf("ImportRows() error: %v", err)
	}
	if result.Imported != 1 {
		t.Fatalf("Imported = %d, want 1", result.Imported)
	}
	r := result.Rows[0]
	if r.ScopeOfWorks != "Formworks" || r.Unit != "sq.m" {
		t.Errorf("text fields = %q/%q", r.ScopeOfWorks, r.Unit)
	}
	if r.Quantity != 12 || r.MaterialUnitCost != 620.5 || r.LaborUnitCost != 380 {
		t.Errorf("numbers = %v/%v/%v", r.Quantity, r.MaterialUnitCost, r.LaborUnitCost)
	}
}

func TestImportRows_Errors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		fileName string
	}{
		{"unsupported extension", "a,b\n1,2", "rows.txt"},
		{"header only", "Scope of Works,Qty", "rows.csv"},
		{"no recognized columns", "Foo,Bar\n1,2", "rows.csv"},
		{"broken xlsx", "not a zip", "rows.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportRows(strings.NewReader(tt.data), tt.fileName); err == nil {
				t.Error("expected an error")
			}
		})
	}

	_, err := ImportRows(strings.NewReader(""), "x.pdf")
	if !errors.Is(err, ErrUnsupportedImport) {
		t.Errorf("error = %v, want ErrUnsupportedImport", err)
	}
}

func TestImportRows_AppendedToEditor(t *testing.T) {
	csvData := "Scope,Qty,Material Unit Cost\nA,2,100\nB,1,50\n"
	result, err := ImportRows(strings.NewReader(csvData), "a.csv")
	if err != nil {
		t.Fatalf("ImportRows() error: %v", err)
	}

	ctx := t.Context()
	ed, _ := OpenEditor(ctx, NewMemoryStore(), "t1")
	if err := ed.AppendRows(ctx, result.Rows); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}
	rows := ed.Snapshot().Rows
	if len(rows) != 2 || rows[0].TotalAmount != 200 || rows[1].TotalAmount != 50 {
		t.Errorf("unexpected rows after import: %+v", rows)
	}
}
