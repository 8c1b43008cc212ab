package services

// Table is the full state of one estimation grid: its rows, its column
// schema and the markup applied to totals.
type Table struct {
	ID            string       `json:"id"`
	Rows          Rows         `json:"rows"`
	Columns       ColumnSchema `json:"columns"`
	MarkupPercent float64      `json:"markupPercent"`
}

// NewTable returns an empty table with the given columns, or the default
// columns when none are given.
func NewTable(id string, columns ColumnSchema) Table {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	return Table{ID: id, Rows: Rows{}, Columns: columns.Clone()}
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := t
	out.Rows = t.Rows.Clone()
	out.Columns = t.Columns.Clone()
	return out
}

// Recalculated returns a copy of t with all derived values refreshed.
func (t Table) Recalculated() Table {
	out := t.Clone()
	out.Rows = Recalculate(t.Rows, t.MarkupPercent)
	return out
}
