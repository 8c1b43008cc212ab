package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// EstimateTablesCollection holds one record per estimation table.
const EstimateTablesCollection = "estimate_tables"

// RecordStore keeps grid state in the rows/columns/markup_percent fields of
// estimate_tables records.
type RecordStore struct {
	app core.App
}

var _ TableStore = (*RecordStore)(nil)

func NewRecordStore(app core.App) *RecordStore {
	return &RecordStore{app: app}
}

func (s *RecordStore) Load(ctx context.Context, tableID string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	rec, err := s.find(tableID)
	if err != nil {
		return Table{}, err
	}
	return TableFromRecord(rec)
}

func (s *RecordStore) Save(ctx context.Context, table Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec, err := s.find(table.ID)
	if err != nil {
		return err
	}
	rec.Set("rows", table.Rows)
	rec.Set("columns", table.Columns)
	rec.Set("markup_percent", table.MarkupPercent)
	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("save record %s: %w", table.ID, err)
	}
	return nil
}

func (s *RecordStore) find(tableID string) (*core.Record, error) {
	rec, err := s.app.FindRecordById(EstimateTablesCollection, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find record %s: %w", tableID, err)
	}
	return rec, nil
}

// TableFromRecord decodes the grid state stored on an estimate_tables record.
// An empty record yields a table with the default columns.
func TableFromRecord(rec *core.Record) (Table, error) {
	table := NewTable(rec.Id, nil)
	table.MarkupPercent = rec.GetFloat("markup_percent")

	if raw := rec.GetString("rows"); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &table.Rows); err != nil {
			return Table{}, fmt.Errorf("decode rows of %s: %w", rec.Id, err)
		}
	}
	if raw := rec.GetString("columns"); raw != "" && raw != "null" {
		var cols ColumnSchema
		if err := json.Unmarshal([]byte(raw), &cols); err != nil {
			return Table{}, fmt.Errorf("decode columns of %s: %w", rec.Id, err)
		}
		if len(cols) > 0 {
			table.Columns = cols
		}
	}
	if table.Rows == nil {
		table.Rows = Rows{}
	}
	return table, nil
}
