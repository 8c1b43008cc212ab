package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// Legacy row flags. Older tables marked special rows with two booleans
// instead of a kind tag.
const (
	legacySubtotalFlag  = "isSubtotal"
	legacyMainTitleFlag = "isMainTitle"
)

// MigrateLegacyRowFlags rewrites stored rows that still use the boolean
// isSubtotal/isMainTitle flags, or that lack a key, into the tagged form and
// recalculates them. A row flagged as both subtotal and main title becomes a
// subtotal. Tables already in the tagged form are left untouched, so the
// migration can run on every start.
func MigrateLegacyRowFlags(app core.App) error {
	records, err := app.FindAllRecords(EstimateTablesCollection)
	if err != nil {
		return fmt.Errorf("migrate_row_kinds: query tables: %w", err)
	}

	migrated := 0
	for _, rec := range records {
		raw := rec.GetString("rows")
		if raw == "" || raw == "null" {
			continue
		}
		var legacy []map[string]any
		if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
			log.Printf("migrate_row_kinds: skipping table %s: %v", rec.Id, err)
			continue
		}

		rows, changed := upgradeLegacyRows(legacy)
		if !changed {
			continue
		}
		rows = Recalculate(rows, rec.GetFloat("markup_percent"))
		rec.Set("rows", rows)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("migrate_row_kinds: save table %s: %w", rec.Id, err)
		}
		migrated++
	}

	if migrated > 0 {
		log.Printf("migrate_row_kinds: migrated %d table(s)", migrated)
	}
	return nil
}

// upgradeLegacyRows converts decoded JSON rows into Rows. changed reports
// whether any row needed a kind, a key or a type fix.
func upgradeLegacyRows(legacy []map[string]any) (Rows, bool) {
	changed := false
	rows := make(Rows, 0, len(legacy))
	for _, m := range legacy {
		_, hasSub := m[legacySubtotalFlag]
		_, hasTitle := m[legacyMainTitleFlag]
		if hasSub || hasTitle {
			changed = true
		}

		kind := RowKind(cast.ToString(m["kind"]))
		if !kind.Valid() {
			changed = true
			switch {
			case cast.ToBool(m[legacySubtotalFlag]):
				kind = RowSubtotal
			case cast.ToBool(m[legacyMainTitleFlag]):
				kind = RowMainTitle
			default:
				kind = RowRegular
			}
		}

		key := cast.ToString(m["key"])
		if key == "" {
			key = uuid.NewString()
			changed = true
		}

		r := Row{
			Key:              key,
			ID:               cast.ToString(m["id"]),
			ScopeOfWorks:     cast.ToString(m[FieldScopeOfWorks]),
			Quantity:         legacyAmount(m[FieldQuantity]),
			Unit:             cast.ToString(m[FieldUnit]),
			MaterialUnitCost: legacyAmount(m[FieldMaterialUnitCost]),
			LaborUnitCost:    legacyAmount(m[FieldLaborUnitCost]),
			Kind:             kind,
		}
		if _, ok := m["id"].(string); !ok && m["id"] != nil {
			changed = true
		}
		if f, ok := m["fields"].(map[string]any); ok && len(f) > 0 {
			r.Fields = cast.ToStringMapString(f)
		}
		if c, ok := m["costs"].(map[string]any); ok && len(c) > 0 {
			r.Costs = make(map[string]float64, len(c))
			for k, v := range c {
				r.Costs[k] = legacyAmount(v)
			}
		}
		rows = append(rows, r)
	}
	return rows, changed
}

// legacyAmount reads a stored number that may be a JSON number or the
// formatted text of an older client, such as "1,200".
func legacyAmount(v any) float64 {
	return ParseAmount(cast.ToString(v))
}

// RecalculateAll re-runs the recalculation engine over every estimate table
// and saves the result through store. A table the store does not hold yet is
// seeded from its record. It returns how many tables were processed.
func RecalculateAll(ctx context.Context, app core.App, store TableStore) (int, error) {
	records, err := app.FindAllRecords(EstimateTablesCollection)
	if err != nil {
		return 0, fmt.Errorf("recalc: query tables: %w", err)
	}

	n := 0
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		table, err := store.Load(ctx, rec.Id)
		if errors.Is(err, ErrTableNotFound) {
			table, err = TableFromRecord(rec)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return n, ctxErr
			}
			log.Printf("recalc: skipping table %s: %v", rec.Id, err)
			continue
		}
		ensureRowKeys(table.Rows)
		if err := store.Save(ctx, table.Recalculated()); err != nil {
			return n, fmt.Errorf("recalc: table %s: %w", rec.Id, err)
		}
		n++
	}
	return n, nil
}
