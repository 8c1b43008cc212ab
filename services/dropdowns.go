package services

// UnitOptions is the list of units offered in the Unit column.
var UnitOptions = []string{
	"pcs",
	"set",
	"lot",
	"l.s.",
	"sq.m",
	"cu.m",
	"l.m",
	"kg",
	"bag",
	"roll",
	"box",
	"length",
	"sheet",
	"gal",
	"day",
	"hr",
}

// MarkupOptions are the markup percentages suggested in the markup picker.
// Any non-negative value is accepted.
var MarkupOptions = []float64{0, 5, 10, 12, 15, 20}

// RowKindOption labels a row kind for insert menus.
type RowKindOption struct {
	Kind  RowKind `json:"kind"`
	Label string  `json:"label"`
}

// RowKindOptions lists every row kind with its menu label.
var RowKindOptions = []RowKindOption{
	{RowRegular, "Row"},
	{RowMainTitle, "Main Title"},
	{RowSubtotal, "Subtotal"},
	{RowTotal, "Total"},
	{RowMarkup, "Markup"},
	{RowGrandTotal, "Grand Total"},
}
