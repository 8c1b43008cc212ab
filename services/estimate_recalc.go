package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Recalculate returns a copy of rows with every derived value brought in line
// with the row kinds: regular-row amounts, subtotals over the regular rows
// since the previous subtotal, totals over all subtotals so far, the markup
// on all totals so far, and grand totals from the nearest preceding total and
// markup. Main-title rows are numbered 1..n. Input order and length are kept.
func Recalculate(rows []Row, markupPercent float64) []Row {
	out := make([]Row, len(rows))
	markupRate := dec(markupPercent).Div(hundred)

	var (
		segment     = decimal.Zero
		subtotalSum = decimal.Zero
		totalSum    = decimal.Zero
		lastTotal   = decimal.Zero
		lastMarkup  = decimal.Zero
		titles      int
	)

	for i, src := range rows {
		r := src.Clone()
		if !r.Kind.Valid() {
			r.Kind = RowRegular
		}

		switch r.Kind {
		case RowRegular:
			qty := dec(r.Quantity)
			material := qty.Mul(dec(r.MaterialUnitCost)).Round(2)
			labor := qty.Mul(dec(r.LaborUnitCost)).Round(2)
			total := material.Add(labor)

			r.ID = ""
			r.Quantity = sanitizeAmount(r.Quantity)
			r.MaterialUnitCost = sanitizeAmount(r.MaterialUnitCost)
			r.LaborUnitCost = sanitizeAmount(r.LaborUnitCost)
			r.MaterialAmount = material.InexactFloat64()
			r.LaborAmount = labor.InexactFloat64()
			r.TotalAmount = total.InexactFloat64()
			recalcCustomCosts(&r, qty)
			segment = segment.Add(total)

		case RowMainTitle:
			titles++
			clearCosts(&r)
			r.ID = strconv.Itoa(titles)

		case RowSubtotal:
			clearCosts(&r)
			r.TotalAmount = segment.InexactFloat64()
			subtotalSum = subtotalSum.Add(segment)
			segment = decimal.Zero

		case RowTotal:
			clearCosts(&r)
			r.TotalAmount = subtotalSum.InexactFloat64()
			totalSum = totalSum.Add(subtotalSum)
			lastTotal = subtotalSum

		case RowMarkup:
			clearCosts(&r)
			markup := totalSum.Mul(markupRate).Round(2)
			r.TotalAmount = markup.InexactFloat64()
			lastMarkup = markup

		case RowGrandTotal:
			clearCosts(&r)
			r.TotalAmount = lastTotal.Add(lastMarkup).InexactFloat64()
		}

		out[i] = r
	}
	return out
}

// recalcCustomCosts derives <field>Amount from <field>UC for user-added
// grouped columns. These amounts are informational and stay out of
// TotalAmount.
func recalcCustomCosts(r *Row, qty decimal.Decimal) {
	for field, uc := range r.Costs {
		base, ok := strings.CutSuffix(field, "UC")
		if !ok || base == "" {
			continue
		}
		r.Costs[field] = sanitizeAmount(uc)
		r.Costs[base+"Amount"] = qty.Mul(dec(uc)).Round(2).InexactFloat64()
	}
}

// clearCosts blanks every numeric cell and the display number of a
// non-regular row.
func clearCosts(r *Row) {
	r.ID = ""
	r.Quantity = 0
	r.MaterialUnitCost = 0
	r.MaterialAmount = 0
	r.LaborUnitCost = 0
	r.LaborAmount = 0
	r.TotalAmount = 0
	r.Costs = nil
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(sanitizeAmount(v))
}

// Totals summarizes the computed rows of a recalculated table.
type Totals struct {
	Subtotals  float64 `json:"subtotals"`
	Total      float64 `json:"total"`
	Markup     float64 `json:"markup"`
	GrandTotal float64 `json:"grandTotal"`
}

// Summarize reports the sum of all subtotal rows and the last total, markup
// and grand-total values of already recalculated rows.
func Summarize(rows []Row) Totals {
	var t Totals
	subtotals := decimal.Zero
	for _, r := range rows {
		switch r.Kind {
		case RowSubtotal:
			subtotals = subtotals.Add(dec(r.TotalAmount))
		case RowTotal:
			t.Total = r.TotalAmount
		case RowMarkup:
			t.Markup = r.TotalAmount
		case RowGrandTotal:
			t.GrandTotal = r.TotalAmount
		}
	}
	t.Subtotals = subtotals.InexactFloat64()
	return t
}
