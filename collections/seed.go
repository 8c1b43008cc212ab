package collections

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

// seedRow is the input part of a grid row. Computed amounts are filled in by
// the recalculation pass that runs after seeding.
type seedRow struct {
	kind             string
	scopeOfWorks     string
	quantity         float64
	unit             string
	materialUnitCost float64
	laborUnitCost    float64
}

type tableDef struct {
	title         string
	kind          string
	markupPercent float64
	rows          []seedRow
}

func section(title string, items ...seedRow) []seedRow {
	rows := make([]seedRow, 0, len(items)+2)
	rows = append(rows, seedRow{kind: "mainTitle", scopeOfWorks: title})
	rows = append(rows, items...)
	return append(rows, seedRow{kind: "subtotal"})
}

func item(scope string, qty float64, unit string, materialUC, laborUC float64) seedRow {
	return seedRow{
		kind:             "regular",
		scopeOfWorks:     scope,
		quantity:         qty,
		unit:             unit,
		materialUnitCost: materialUC,
		laborUnitCost:    laborUC,
	}
}

func (r seedRow) toJSON() map[string]any {
	m := map[string]any{
		"key":  uuid.NewString(),
		"kind": r.kind,
	}
	if r.scopeOfWorks != "" {
		m["scopeOfWorks"] = r.scopeOfWorks
	}
	if r.kind == "regular" {
		m["quantity"] = r.quantity
		m["unit"] = r.unit
		m["materialUnitCost"] = r.materialUnitCost
		m["laborUnitCost"] = r.laborUnitCost
	}
	return m
}

// Seed inserts a demo project with one estimate table when the projects
// collection is empty. It returns early if any project records already exist.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty, inserting seed data")

	tablesCol, err := app.FindCollectionByNameOrId("estimate_tables")
	if err != nil {
		return fmt.Errorf("seed: could not find estimate_tables collection: %w", err)
	}

	createTable := func(projectID string, d tableDef) error {
		rows := make([]map[string]any, 0, len(d.rows))
		for _, r := range d.rows {
			rows = append(rows, r.toJSON())
		}
		rec := core.NewRecord(tablesCol)
		rec.Set("project", projectID)
		rec.Set("title", d.title)
		rec.Set("kind", d.kind)
		rec.Set("markup_percent", d.markupPercent)
		rec.Set("rows", rows)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: save estimate table %q: %w", d.title, err)
		}
		return nil
	}

	// ══════════════════════════════════════════════════════════════════
	// PROJECT: Two-Storey Residence
	// ══════════════════════════════════════════════════════════════════

	p := core.NewRecord(projectsCol)
	p.Set("name", "Two-Storey Residence (Lot 12)")
	p.Set("client_name", "Dela Cruz Family")
	p.Set("reference_number", "RES-2026-012")
	p.Set("status", "active")
	if err := app.Save(p); err != nil {
		return fmt.Errorf("seed: save project: %w", err)
	}

	var rows []seedRow
	rows = append(rows, section("Earthworks",
		item("Excavation for footings", 42, "cu.m", 0, 450),
		item("Backfill and compaction", 30, "cu.m", 180, 250),
		item("Gravel bedding", 8, "cu.m", 1350, 300),
	)...)
	rows = append(rows, section("Concrete Works",
		item("Ready-mix concrete 3000 psi", 36, "cu.m", 5200, 900),
		item("Deformed bars 12mm", 480, "pcs", 265, 45),
		item("Formworks (phenolic board)", 120, "sq.m", 620, 380),
	)...)
	rows = append(rows, section("Masonry",
		item("CHB 6\" wall", 310, "sq.m", 540, 320),
		item("Plastering both faces", 620, "sq.m", 95, 160),
	)...)
	rows = append(rows,
		seedRow{kind: "total"},
		seedRow{kind: "markup"},
		seedRow{kind: "grandTotal"},
	)

	if err := createTable(p.Id, tableDef{
		title:         "Bill of Quantities: Structural",
		kind:          "boq",
		markupPercent: 12,
		rows:          rows,
	}); err != nil {
		return err
	}

	if err := createTable(p.Id, tableDef{
		title: "Bill of Materials: Electrical Rough-in",
		kind:  "bom",
		rows: section("Electrical",
			item("PVC conduit 20mm", 150, "pcs", 85, 0),
			item("THHN wire 3.5mm²", 6, "roll", 4800, 0),
			item("Utility box", 64, "pcs", 38, 0),
		),
	}); err != nil {
		return err
	}

	log.Println("seed: inserted 1 project with 2 estimate tables")
	return nil
}
