package services

import (
	"testing"
)

func titled(title string) Row {
	r := NewRow(RowMainTitle)
	r.ScopeOfWorks = title
	return r
}

// sampleExportTable has two titled sections (300 and 200), a total of 500,
// 10% markup and a grand total of 550.
func sampleExportTable() Table {
	t := NewTable("t1", nil)
	t.MarkupPercent = 10
	t.Rows = Rows{
		titled("Earthworks"),
		regular(2, 100, 50),
		NewRow(RowSubtotal),
		titled("Concrete"),
		regular(1, 150, 50),
		NewRow(RowSubtotal),
		NewRow(RowTotal),
		NewRow(RowMarkup),
		NewRow(RowGrandTotal),
	}
	return t.Recalculated()
}

func sampleExportData() ExportData {
	return BuildExportData(sampleExportTable(), ExportMeta{
		Title:           "Structural BOQ",
		ProjectName:     "Residence",
		ClientName:      "Client",
		ReferenceNumber: "REF-001",
		CreatedDate:     "17 Oct 2026",
	})
}

func TestBuildExportData_Sections(t *testing.T) {
	data := sampleExportData()

	if len(data.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(data.Sections))
	}
	tests := []struct {
		number, title string
		rows          int
	}{
		{"1", "Earthworks", 2},
		{"2", "Concrete", 2},
	}
	for i, want := range tests {
		sec := data.Sections[i]
		if sec.Number != want.number || sec.Title != want.title {
			t.Errorf("section %d = %q %q, want %q %q", i, sec.Number, sec.Title, want.number, want.title)
		}
		if len(sec.Rows) != want.rows {
			t.Errorf("section %d rows = %d, want %d", i, len(sec.Rows), want.rows)
		}
		if last := sec.Rows[len(sec.Rows)-1]; last.Kind != RowSubtotal {
			t.Errorf("section %d should end with its subtotal, got %q", i, last.Kind)
		}
	}
}

func TestBuildExportData_Summary(t *testing.T) {
	data := sampleExportData()

	want := []struct {
		kind   RowKind
		label  string
		amount float64
	}{
		{RowTotal, "TOTAL", 500},
		{RowMarkup, "MARKUP (10%)", 50},
		{RowGrandTotal, "GRAND TOTAL", 550},
	}
	if len(data.Summary) != len(want) {
		t.Fatalf("expected %d summary lines, got %d", len(want), len(data.Summary))
	}
	for i, w := range want {
		s := data.Summary[i]
		if s.Kind != w.kind || s.Label != w.label || s.Amount != w.amount {
			t.Errorf("summary %d = %+v, want %+v", i, s, w)
		}
	}
}

func TestBuildExportData_Columns(t *testing.T) {
	data := sampleExportData()

	leaves := DefaultColumns().Leaves()
	if len(data.Columns) != len(leaves) {
		t.Fatalf("expected %d columns, got %d", len(leaves), len(data.Columns))
	}
	if !data.HasGroups() {
		t.Error("default columns should have groups")
	}

	byField := map[string]ExportColumn{}
	for _, c := range data.Columns {
		byField[c.Field] = c
	}
	if byField[FieldMaterialUnitCost].Group != "Material" {
		t.Errorf("materialUnitCost group = %q, want Material", byField[FieldMaterialUnitCost].Group)
	}
	if byField[FieldScopeOfWorks].Group != "" {
		t.Error("scopeOfWorks should not be grouped")
	}

	row := data.Sections[0].Rows[0]
	for i, c := range data.Columns {
		if c.Field == FieldTotalAmount {
			if row.Cells[i].Text != "300" || row.Cells[i].Number != 300 {
				t.Errorf("total cell = %+v, want 300", row.Cells[i])
			}
		}
	}
}

func TestBuildExportData_UntitledLeadingRows(t *testing.T) {
	table := NewTable("t", nil)
	table.Rows = Rows{regular(1, 10, 0), titled("Later"), regular(1, 20, 0)}
	data := BuildExportData(table.Recalculated(), ExportMeta{})

	if data.Title != "Estimate" {
		t.Errorf("default title = %q, want Estimate", data.Title)
	}
	if len(data.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(data.Sections))
	}
	if data.Sections[0].Title != "" || len(data.Sections[0].Rows) != 1 {
		t.Errorf("first section = %+v, want one untitled row", data.Sections[0])
	}
	if len(data.Summary) != 0 {
		t.Errorf("expected no summary lines, got %d", len(data.Summary))
	}
}

func TestBuildExportData_ZeroMarkupLabel(t *testing.T) {
	table := NewTable("t", nil)
	table.Rows = Rows{NewRow(RowMarkup)}
	data := BuildExportData(table.Recalculated(), ExportMeta{})

	if got := data.Summary[0].Label; got != "MARKUP (0%)" {
		t.Errorf("label = %q, want MARKUP (0%%)", got)
	}
}
