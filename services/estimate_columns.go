package services

import (
	"errors"
	"slices"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrDuplicateColumn = errors.New("a column with this name already exists")
	ErrFixedColumn     = errors.New("built-in columns cannot be removed")
	ErrColumnNotFound  = errors.New("column not found")
)

// ColumnDef describes one grid column, or a column group when Children is set.
type ColumnDef struct {
	Field      string      `json:"field"`
	HeaderName string      `json:"headerName"`
	Editable   bool        `json:"editable"`
	Numeric    bool        `json:"numeric,omitempty"`
	Custom     bool        `json:"custom,omitempty"`
	Children   []ColumnDef `json:"children,omitempty"`
}

// ColumnSchema is the ordered set of top-level columns of a table.
type ColumnSchema []ColumnDef

// DefaultColumns returns the built-in estimation-table columns.
func DefaultColumns() ColumnSchema {
	return ColumnSchema{
		{Field: FieldID, HeaderName: "No."},
		{Field: FieldScopeOfWorks, HeaderName: "Scope of Works", Editable: true},
		{Field: FieldQuantity, HeaderName: "Qty", Editable: true, Numeric: true},
		{Field: FieldUnit, HeaderName: "Unit", Editable: true},
		{Field: "material", HeaderName: "Material", Children: []ColumnDef{
			{Field: FieldMaterialUnitCost, HeaderName: "Unit Cost", Editable: true, Numeric: true},
			{Field: FieldMaterialAmount, HeaderName: "Amount", Numeric: true},
		}},
		{Field: "labor", HeaderName: "Labor", Children: []ColumnDef{
			{Field: FieldLaborUnitCost, HeaderName: "Unit Cost", Editable: true, Numeric: true},
			{Field: FieldLaborAmount, HeaderName: "Amount", Numeric: true},
		}},
		{Field: FieldTotalAmount, HeaderName: "Total Amount", Numeric: true},
	}
}

// Clone returns a deep copy of s.
func (s ColumnSchema) Clone() ColumnSchema {
	if s == nil {
		return nil
	}
	out := make(ColumnSchema, len(s))
	for i, c := range s {
		out[i] = c
		out[i].Children = slices.Clone(c.Children)
	}
	return out
}

// Leaves flattens the schema into the columns that hold cell values, with
// group children in place of their group.
func (s ColumnSchema) Leaves() []ColumnDef {
	var out []ColumnDef
	for _, c := range s {
		if len(c.Children) > 0 {
			out = append(out, c.Children...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// Lookup finds a leaf column by field key.
func (s ColumnSchema) Lookup(field string) (ColumnDef, bool) {
	for _, c := range s.Leaves() {
		if c.Field == field {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// fieldKeys returns every field key in use, groups included.
func (s ColumnSchema) fieldKeys() map[string]bool {
	keys := make(map[string]bool)
	for _, c := range s {
		keys[c.Field] = true
		for _, child := range c.Children {
			keys[child.Field] = true
		}
	}
	return keys
}

// ColumnKey derives the field key for a user-supplied column name: lower
// case with all whitespace removed.
func ColumnKey(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// AddColumn returns a new schema with a user-defined column inserted right
// before the Total Amount column, or appended when that column is absent.
// subheaders == 2 adds a group with a unit-cost and an amount child;
// subheaders == 1 adds a single editable column.
//
// Field keys come from ColumnKey(name), which lowercases the name and drops
// every whitespace character, so "Site Equipment" is stored under
// "siteequipment" (or "siteequipmentUC" and "siteequipmentAmount" for a
// group). Names that differ only in case or spacing collide.
func (s ColumnSchema) AddColumn(name string, subheaders int) (ColumnSchema, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required.Error("column name is required")); err != nil {
		return s, newValidationError("name", err)
	}
	if err := validation.Validate(subheaders,
		validation.Required.Error("choose 1 or 2 sub-headers"),
		validation.In(1, 2).Error("choose 1 or 2 sub-headers"),
	); err != nil {
		return s, newValidationError("subheaders", err)
	}

	key := ColumnKey(name)
	col := ColumnDef{Field: key, HeaderName: name, Editable: true, Custom: true}
	newKeys := []string{key}
	if subheaders == 2 {
		col.Editable = false
		col.Children = []ColumnDef{
			{Field: key + "UC", HeaderName: "Unit Cost", Editable: true, Numeric: true, Custom: true},
			{Field: key + "Amount", HeaderName: "Amount", Numeric: true, Custom: true},
		}
		newKeys = append(newKeys, key+"UC", key+"Amount")
	}

	existing := s.fieldKeys()
	for _, k := range newKeys {
		if existing[k] {
			return s, ErrDuplicateColumn
		}
	}

	out := s.Clone()
	pos := slices.IndexFunc(out, func(c ColumnDef) bool { return c.Field == FieldTotalAmount })
	if pos < 0 {
		return append(out, col), nil
	}
	return slices.Insert(out, pos, col), nil
}

// RemoveColumn returns a new schema without the user-defined column (or
// column group) keyed field.
func (s ColumnSchema) RemoveColumn(field string) (ColumnSchema, error) {
	pos := slices.IndexFunc(s, func(c ColumnDef) bool { return c.Field == field })
	if pos < 0 {
		return s, ErrColumnNotFound
	}
	if !s[pos].Custom {
		return s, ErrFixedColumn
	}
	return slices.Delete(s.Clone(), pos, pos+1), nil
}

// CanEdit reports whether field may be edited on a row of the given kind.
func (s ColumnSchema) CanEdit(kind RowKind, field string) bool {
	switch kind {
	case RowRegular:
		col, ok := s.Lookup(field)
		return ok && col.Editable
	case RowMainTitle:
		return field == FieldScopeOfWorks
	}
	return false
}
