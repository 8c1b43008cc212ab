package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// MaxInsertRows caps how many regular rows a single insert may add.
const MaxInsertRows = 500

// Editor applies grid edits to one estimation table. Every mutation is
// followed by a recalculation and a save to the table store. A store failure
// leaves the mutation in memory and is reported as *PersistError.
type Editor struct {
	mu    sync.Mutex
	store TableStore
	table Table
	undo  *undoStack
}

type editorOptions struct {
	undoDepth int
	columns   ColumnSchema
}

// EditorOption configures OpenEditor.
type EditorOption func(*editorOptions)

// WithUndoDepth bounds the number of undoable states kept.
func WithUndoDepth(n int) EditorOption {
	return func(o *editorOptions) { o.undoDepth = n }
}

// WithColumns sets the columns of a table that does not exist yet.
func WithColumns(cols ColumnSchema) EditorOption {
	return func(o *editorOptions) { o.columns = cols }
}

// OpenEditor loads tableID from store. A table that was never saved starts
// empty.
func OpenEditor(ctx context.Context, store TableStore, tableID string, opts ...EditorOption) (*Editor, error) {
	o := editorOptions{undoDepth: defaultUndoDepth}
	for _, opt := range opts {
		opt(&o)
	}

	table, err := store.Load(ctx, tableID)
	switch {
	case errors.Is(err, ErrTableNotFound):
		table = NewTable(tableID, o.columns)
	case err != nil:
		return nil, fmt.Errorf("load estimate table %s: %w", tableID, err)
	}
	table.ID = tableID
	if len(table.Columns) == 0 {
		table.Columns = DefaultColumns()
	}
	if table.Rows == nil {
		table.Rows = Rows{}
	}
	ensureRowKeys(table.Rows)

	return &Editor{
		store: store,
		table: table.Recalculated(),
		undo:  newUndoStack(o.undoDepth),
	}, nil
}

// Snapshot returns a copy of the current table.
func (e *Editor) Snapshot() Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.Clone()
}

// UndoDepth reports how many states can currently be undone.
func (e *Editor) UndoDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undo.len()
}

// InsertRows adds rows of kind after the row keyed afterKey, or at the end
// when afterKey is empty. Regular rows are inserted count at a time; every
// other kind is inserted exactly once.
func (e *Editor) InsertRows(ctx context.Context, kind RowKind, count int, afterKey string) error {
	if !kind.Valid() {
		return newValidationError("kind", fmt.Errorf("unknown row kind %q", kind))
	}
	if kind != RowRegular {
		count = 1
	}
	if err := validation.Validate(count,
		validation.Required.Error("enter a valid number of rows"),
		validation.Min(1).Error("enter a valid number of rows"),
		validation.Max(MaxInsertRows).Error(fmt.Sprintf("at most %d rows can be added at once", MaxInsertRows)),
	); err != nil {
		return newValidationError("count", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	pos := len(e.table.Rows)
	if afterKey != "" {
		idx := e.table.Rows.IndexOf(afterKey)
		if idx < 0 {
			return ErrRowNotFound
		}
		pos = idx + 1
	}

	added := make([]Row, count)
	for i := range added {
		added[i] = NewRow(kind)
	}

	return e.commit(ctx, func(t *Table) {
		t.Rows = slices.Insert(t.Rows, pos, added...)
	})
}

// AppendRows adds already populated rows to the end of the table. Keys are
// reassigned so they stay unique.
func (e *Editor) AppendRows(ctx context.Context, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	added := make([]Row, len(rows))
	for i, r := range rows {
		added[i] = r.Clone()
		added[i].Key = uuid.NewString()
		if !added[i].Kind.Valid() {
			added[i].Kind = RowRegular
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit(ctx, func(t *Table) {
		t.Rows = append(t.Rows, added...)
	})
}

// EditCell stores raw into field of the row keyed rowKey. Numeric fields are
// parsed leniently. Derived cells and every cell of a computed row are
// rejected with ErrNotEditable and leave the table untouched.
func (e *Editor) EditCell(ctx context.Context, rowKey, field, raw string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.table.Rows.IndexOf(rowKey)
	if idx < 0 {
		return ErrRowNotFound
	}
	row := e.table.Rows[idx]
	if !e.table.Columns.CanEdit(row.Kind, field) {
		return ErrNotEditable
	}
	col, _ := e.table.Columns.Lookup(field)

	return e.commitWithoutUndo(ctx, func(t *Table) {
		setCell(&t.Rows[idx], col, raw)
	})
}

// setCell writes a raw cell value into the matching row field.
func setCell(r *Row, col ColumnDef, raw string) {
	if col.Numeric {
		v := ParseAmount(raw)
		switch col.Field {
		case FieldQuantity:
			r.Quantity = v
		case FieldMaterialUnitCost:
			r.MaterialUnitCost = v
		case FieldLaborUnitCost:
			r.LaborUnitCost = v
		default:
			if r.Costs == nil {
				r.Costs = make(map[string]float64)
			}
			r.Costs[col.Field] = v
		}
		return
	}

	text := strings.TrimSpace(raw)
	switch col.Field {
	case FieldScopeOfWorks:
		r.ScopeOfWorks = text
	case FieldUnit:
		r.Unit = text
	default:
		if r.Fields == nil {
			r.Fields = make(map[string]string)
		}
		r.Fields[col.Field] = text
	}
}

// DeleteRow removes the row keyed rowKey.
func (e *Editor) DeleteRow(ctx context.Context, rowKey string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.table.Rows.IndexOf(rowKey)
	if idx < 0 {
		return ErrRowNotFound
	}
	return e.commit(ctx, func(t *Table) {
		t.Rows = slices.Delete(t.Rows, idx, idx+1)
	})
}

// DeleteAllRows clears every row. Columns and markup are kept.
func (e *Editor) DeleteAllRows(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commit(ctx, func(t *Table) {
		t.Rows = Rows{}
	})
}

// Reorder replaces the row order with keys, which must name every current
// row exactly once.
func (e *Editor) Reorder(ctx context.Context, keys []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(keys) != len(e.table.Rows) {
		return ErrInvalidOrder
	}
	byKey := make(map[string]Row, len(e.table.Rows))
	for _, r := range e.table.Rows {
		byKey[r.Key] = r
	}
	reordered := make(Rows, 0, len(keys))
	for _, k := range keys {
		r, ok := byKey[k]
		if !ok {
			return ErrInvalidOrder
		}
		delete(byKey, k)
		reordered = append(reordered, r)
	}

	return e.commit(ctx, func(t *Table) {
		t.Rows = reordered
	})
}

// AddColumn inserts a user-defined column; see ColumnSchema.AddColumn.
func (e *Editor) AddColumn(ctx context.Context, name string, subheaders int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cols, err := e.table.Columns.AddColumn(name, subheaders)
	if err != nil {
		return err
	}
	return e.commit(ctx, func(t *Table) {
		t.Columns = cols
	})
}

// RemoveColumn drops a user-defined column together with its cell values.
func (e *Editor) RemoveColumn(ctx context.Context, field string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := slices.IndexFunc(e.table.Columns, func(c ColumnDef) bool { return c.Field == field })
	cols, err := e.table.Columns.RemoveColumn(field)
	if err != nil {
		return err
	}
	dropped := e.table.Columns[removed]

	return e.commit(ctx, func(t *Table) {
		t.Columns = cols
		for i := range t.Rows {
			delete(t.Rows[i].Fields, dropped.Field)
			for _, child := range dropped.Children {
				delete(t.Rows[i].Costs, child.Field)
			}
		}
	})
}

// SetMarkup changes the markup percentage applied by markup rows.
func (e *Editor) SetMarkup(ctx context.Context, percent float64) error {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return newValidationError("markupPercent", errors.New("enter a valid markup percentage"))
	}
	if err := validation.Validate(percent, validation.Min(0.0).Error("markup cannot be negative")); err != nil {
		return newValidationError("markupPercent", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitWithoutUndo(ctx, func(t *Table) {
		t.MarkupPercent = percent
	})
}

// Undo restores the state before the most recent structural change. It
// reports false, and does nothing, when there is nothing to undo.
func (e *Editor) Undo(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.undo.pop()
	if !ok {
		return false, nil
	}
	e.table = prev
	return true, e.save(ctx)
}

// commit snapshots the current state for undo, applies mutate, recalculates
// and saves.
func (e *Editor) commit(ctx context.Context, mutate func(*Table)) error {
	e.undo.push(e.table)
	return e.commitWithoutUndo(ctx, mutate)
}

func (e *Editor) commitWithoutUndo(ctx context.Context, mutate func(*Table)) error {
	next := e.table.Clone()
	mutate(&next)
	e.table = next.Recalculated()
	return e.save(ctx)
}

func (e *Editor) save(ctx context.Context) error {
	if err := e.store.Save(ctx, e.table.Clone()); err != nil {
		return &PersistError{TableID: e.table.ID, Err: err}
	}
	return nil
}

// ensureRowKeys gives keyless rows (older data) a fresh key in place.
func ensureRowKeys(rows Rows) {
	seen := make(map[string]bool, len(rows))
	for i := range rows {
		if rows[i].Key == "" || seen[rows[i].Key] {
			rows[i].Key = uuid.NewString()
		}
		seen[rows[i].Key] = true
	}
}
