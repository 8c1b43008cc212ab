package services

import (
	"math"
	"reflect"
	"testing"
)

func regular(qty, materialUC, laborUC float64) Row {
	r := NewRow(RowRegular)
	r.Quantity = qty
	r.MaterialUnitCost = materialUC
	r.LaborUnitCost = laborUC
	return r
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func TestRecalculate_RegularRow(t *testing.T) {
	rows := Recalculate([]Row{regular(2, 100, 50)}, 0)

	r := rows[0]
	if r.MaterialAmount != 200 {
		t.Errorf("MaterialAmount = %v, want 200", r.MaterialAmount)
	}
	if r.LaborAmount != 100 {
		t.Errorf("LaborAmount = %v, want 100", r.LaborAmount)
	}
	if r.TotalAmount != 300 {
		t.Errorf("TotalAmount = %v, want 300", r.TotalAmount)
	}
}

func TestRecalculate_SubtotalSegments(t *testing.T) {
	rows := []Row{
		regular(2, 100, 50), // 300
		NewRow(RowSubtotal),
		regular(1, 150, 50), // 200
		NewRow(RowSubtotal),
	}

	got := Recalculate(rows, 0)

	if got[1].TotalAmount != 300 {
		t.Errorf("first subtotal = %v, want 300", got[1].TotalAmount)
	}
	if got[3].TotalAmount != 200 {
		t.Errorf("second subtotal = %v, want 200", got[3].TotalAmount)
	}
}

func TestRecalculate_TotalMarkupGrandTotal(t *testing.T) {
	rows := []Row{
		regular(2, 100, 50),
		NewRow(RowSubtotal),
		regular(1, 150, 50),
		NewRow(RowSubtotal),
		NewRow(RowTotal),
		NewRow(RowMarkup),
		NewRow(RowGrandTotal),
	}

	got := Recalculate(rows, 10)

	if got[4].TotalAmount != 500 {
		t.Errorf("total = %v, want 500", got[4].TotalAmount)
	}
	if got[5].TotalAmount != 50 {
		t.Errorf("markup = %v, want 50", got[5].TotalAmount)
	}
	if got[6].TotalAmount != 550 {
		t.Errorf("grand total = %v, want 550", got[6].TotalAmount)
	}

	totals := Summarize(got)
	want := Totals{Subtotals: 500, Total: 500, Markup: 50, GrandTotal: 550}
	if totals != want {
		t.Errorf("Summarize() = %+v, want %+v", totals, want)
	}
}

func TestRecalculate_MainTitleNumbering(t *testing.T) {
	title := NewRow(RowMainTitle)
	title.ScopeOfWorks = "Earthworks"
	title.Quantity = 5
	title.MaterialUnitCost = 10
	title.TotalAmount = 99

	rows := []Row{title, regular(1, 10, 0), NewRow(RowMainTitle), regular(1, 5, 0), NewRow(RowMainTitle)}
	got := Recalculate(rows, 0)

	wantIDs := []string{"1", "", "2", "", "3"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("row %d ID = %q, want %q", i, got[i].ID, id)
		}
	}
	if got[0].Quantity != 0 || got[0].MaterialUnitCost != 0 || got[0].TotalAmount != 0 {
		t.Errorf("main title cost fields not blank: %+v", got[0])
	}
	if got[0].ScopeOfWorks != "Earthworks" {
		t.Errorf("main title text changed: %q", got[0].ScopeOfWorks)
	}
}

func TestRecalculate_SubtotalIgnoresTitlesAndStartsAtTableStart(t *testing.T) {
	rows := []Row{
		NewRow(RowMainTitle),
		regular(1, 10, 0),
		NewRow(RowMainTitle),
		regular(1, 20, 0),
		NewRow(RowSubtotal),
	}

	got := Recalculate(rows, 0)
	if got[4].TotalAmount != 30 {
		t.Errorf("subtotal = %v, want 30", got[4].TotalAmount)
	}
}

func TestRecalculate_GrandTotalUsesNearestPreceding(t *testing.T) {
	rows := []Row{
		regular(1, 100, 0),
		NewRow(RowSubtotal),
		NewRow(RowTotal),
		NewRow(RowMarkup),
		regular(1, 50, 0),
		NewRow(RowSubtotal),
		NewRow(RowTotal), // 150: all subtotals so far
		NewRow(RowGrandTotal),
	}

	got := Recalculate(rows, 20)

	if got[3].TotalAmount != 20 {
		t.Errorf("markup = %v, want 20", got[3].TotalAmount)
	}
	if got[6].TotalAmount != 150 {
		t.Errorf("second total = %v, want 150", got[6].TotalAmount)
	}
	if got[7].TotalAmount != 170 {
		t.Errorf("grand total = %v, want 170 (150 + 20)", got[7].TotalAmount)
	}
}

func TestRecalculate_MarkupWithoutTotals(t *testing.T) {
	got := Recalculate([]Row{regular(1, 100, 0), NewRow(RowMarkup), NewRow(RowGrandTotal)}, 10)
	if got[1].TotalAmount != 0 {
		t.Errorf("markup with no total rows = %v, want 0", got[1].TotalAmount)
	}
	if got[2].TotalAmount != 0 {
		t.Errorf("grand total with no total rows = %v, want 0", got[2].TotalAmount)
	}
}

func TestRecalculate_ComputedRowsDropInput(t *testing.T) {
	sub := NewRow(RowSubtotal)
	sub.Quantity = 3
	sub.MaterialUnitCost = 40
	sub.Costs = map[string]float64{"equipmentUC": 5}

	got := Recalculate([]Row{regular(1, 10, 0), sub}, 0)
	if got[1].Quantity != 0 || got[1].MaterialUnitCost != 0 || got[1].Costs != nil {
		t.Errorf("subtotal kept input values: %+v", got[1])
	}
	if got[1].TotalAmount != 10 {
		t.Errorf("subtotal = %v, want 10", got[1].TotalAmount)
	}
}

func TestRecalculate_CustomGroupedCosts(t *testing.T) {
	r := regular(4, 10, 5)
	r.Costs = map[string]float64{"equipmentUC": 2.5}

	got := Recalculate([]Row{r}, 0)
	if got[0].Costs["equipmentAmount"] != 10 {
		t.Errorf("equipmentAmount = %v, want 10", got[0].Costs["equipmentAmount"])
	}
	if got[0].TotalAmount != 60 {
		t.Errorf("TotalAmount = %v, want 60 (custom amounts excluded)", got[0].TotalAmount)
	}
	if _, ok := r.Costs["equipmentAmount"]; ok {
		t.Error("Recalculate mutated its input row")
	}
}

func TestRecalculate_NaNInputsTreatedAsZero(t *testing.T) {
	got := Recalculate([]Row{regular(math.NaN(), 100, 10), regular(2, math.Inf(1), 10)}, math.NaN())

	if got[0].TotalAmount != 0 || got[0].Quantity != 0 {
		t.Errorf("NaN quantity row = %+v, want zero amounts", got[0])
	}
	if got[1].MaterialAmount != 0 || got[1].LaborAmount != 20 {
		t.Errorf("Inf unit cost row = %+v", got[1])
	}
}

func TestRecalculate_InvalidKindBecomesRegular(t *testing.T) {
	r := regular(1, 10, 0)
	r.Kind = "bogus"
	got := Recalculate([]Row{r}, 0)
	if got[0].Kind != RowRegular || got[0].TotalAmount != 10 {
		t.Errorf("got %+v, want regular row with total 10", got[0])
	}
}

func TestRecalculate_Properties(t *testing.T) {
	rows := []Row{
		NewRow(RowMainTitle),
		regular(3, 12.35, 4.1),
		regular(0.5, 1999.99, 0),
		NewRow(RowSubtotal),
		NewRow(RowMainTitle),
		regular(7, 0.1, 0.2),
		regular(12.25, 33.33, 11.11),
		NewRow(RowSubtotal),
		NewRow(RowTotal),
		NewRow(RowMarkup),
		NewRow(RowGrandTotal),
	}

	once := Recalculate(rows, 12.5)

	t.Run("regular total is material plus labor", func(t *testing.T) {
		for i, r := range once {
			if r.Kind == RowRegular && !approx(r.TotalAmount, r.MaterialAmount+r.LaborAmount) {
				t.Errorf("row %d: total %v != %v + %v", i, r.TotalAmount, r.MaterialAmount, r.LaborAmount)
			}
		}
	})

	t.Run("subtotal sums its segment", func(t *testing.T) {
		var segment float64
		for i, r := range once {
			switch r.Kind {
			case RowRegular:
				segment += r.TotalAmount
			case RowSubtotal:
				if !approx(r.TotalAmount, segment) {
					t.Errorf("row %d: subtotal %v, segment sum %v", i, r.TotalAmount, segment)
				}
				segment = 0
			}
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		twice := Recalculate(once, 12.5)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("second pass changed rows:\n once=%+v\ntwice=%+v", once, twice)
		}
	})

	t.Run("length and order kept", func(t *testing.T) {
		if len(once) != len(rows) {
			t.Fatalf("len = %d, want %d", len(once), len(rows))
		}
		for i := range rows {
			if once[i].Key != rows[i].Key {
				t.Errorf("row %d key changed", i)
			}
		}
	})
}
