package services

import (
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"
)

// RowKind tags what an estimation-table row represents. The kinds are
// mutually exclusive.
type RowKind string

const (
	RowRegular    RowKind = "regular"
	RowMainTitle  RowKind = "mainTitle"
	RowSubtotal   RowKind = "subtotal"
	RowTotal      RowKind = "total"
	RowMarkup     RowKind = "markup"
	RowGrandTotal RowKind = "grandTotal"
)

// RowKinds lists every valid kind in display order.
var RowKinds = []RowKind{RowRegular, RowMainTitle, RowSubtotal, RowTotal, RowMarkup, RowGrandTotal}

// ParseRowKind validates a kind received from a client or an import file.
func ParseRowKind(s string) (RowKind, error) {
	k := RowKind(strings.TrimSpace(s))
	if k.Valid() {
		return k, nil
	}
	return "", fmt.Errorf("unknown row kind %q", s)
}

// Valid reports whether k is one of the known kinds.
func (k RowKind) Valid() bool {
	switch k {
	case RowRegular, RowMainTitle, RowSubtotal, RowTotal, RowMarkup, RowGrandTotal:
		return true
	}
	return false
}

// Computed reports whether rows of this kind hold only derived values.
func (k RowKind) Computed() bool {
	switch k {
	case RowSubtotal, RowTotal, RowMarkup, RowGrandTotal:
		return true
	}
	return false
}

// defaultLabel is the scope-of-works text a freshly inserted row carries.
func (k RowKind) defaultLabel() string {
	switch k {
	case RowSubtotal:
		return "SUBTOTAL"
	case RowTotal:
		return "TOTAL"
	case RowMarkup:
		return "MARKUP"
	case RowGrandTotal:
		return "GRAND TOTAL"
	}
	return ""
}

// Fixed row field keys. They double as column fields in DefaultColumns.
const (
	FieldID               = "id"
	FieldScopeOfWorks     = "scopeOfWorks"
	FieldQuantity         = "quantity"
	FieldUnit             = "unit"
	FieldMaterialUnitCost = "materialUnitCost"
	FieldMaterialAmount   = "materialAmount"
	FieldLaborUnitCost    = "laborUnitCost"
	FieldLaborAmount      = "laborAmount"
	FieldTotalAmount      = "totalAmount"
)

// Row is one line of an estimation table. Key is the stable identity of the
// row; ID is only the display number of main-title rows.
type Row struct {
	Key              string             `json:"key"`
	ID               string             `json:"id"`
	ScopeOfWorks     string             `json:"scopeOfWorks"`
	Quantity         float64            `json:"quantity"`
	Unit             string             `json:"unit"`
	MaterialUnitCost float64            `json:"materialUnitCost"`
	MaterialAmount   float64            `json:"materialAmount"`
	LaborUnitCost    float64            `json:"laborUnitCost"`
	LaborAmount      float64            `json:"laborAmount"`
	TotalAmount      float64            `json:"totalAmount"`
	Kind             RowKind            `json:"kind"`
	Fields           map[string]string  `json:"fields,omitempty"`
	Costs            map[string]float64 `json:"costs,omitempty"`
}

// NewRow returns a blank row of the given kind with a fresh key.
func NewRow(kind RowKind) Row {
	return Row{
		Key:          uuid.NewString(),
		Kind:         kind,
		ScopeOfWorks: kind.defaultLabel(),
	}
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	out := r
	out.Fields = maps.Clone(r.Fields)
	out.Costs = maps.Clone(r.Costs)
	return out
}

// Value returns the display text of field on this row.
func (r Row) Value(field string) string {
	switch field {
	case FieldID:
		return r.ID
	case FieldScopeOfWorks:
		return r.ScopeOfWorks
	case FieldQuantity:
		return FormatQuantity(r.Quantity)
	case FieldUnit:
		return r.Unit
	case FieldMaterialUnitCost:
		return FormatAmount(r.MaterialUnitCost)
	case FieldMaterialAmount:
		return FormatAmount(r.MaterialAmount)
	case FieldLaborUnitCost:
		return FormatAmount(r.LaborUnitCost)
	case FieldLaborAmount:
		return FormatAmount(r.LaborAmount)
	case FieldTotalAmount:
		return FormatAmount(r.TotalAmount)
	}
	if v, ok := r.Costs[field]; ok {
		return FormatAmount(v)
	}
	return r.Fields[field]
}

// Number returns the numeric value of field, or 0 for text fields.
func (r Row) Number(field string) float64 {
	switch field {
	case FieldQuantity:
		return r.Quantity
	case FieldMaterialUnitCost:
		return r.MaterialUnitCost
	case FieldMaterialAmount:
		return r.MaterialAmount
	case FieldLaborUnitCost:
		return r.LaborUnitCost
	case FieldLaborAmount:
		return r.LaborAmount
	case FieldTotalAmount:
		return r.TotalAmount
	}
	return r.Costs[field]
}

// Rows is an ordered run of estimation-table rows.
type Rows []Row

// Clone returns a deep copy of rs.
func (rs Rows) Clone() Rows {
	if rs == nil {
		return nil
	}
	out := make(Rows, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// IndexOf returns the position of the row with the given key, or -1.
func (rs Rows) IndexOf(key string) int {
	for i, r := range rs {
		if r.Key == key {
			return i
		}
	}
	return -1
}
