package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

type estimateListItem struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Kind          string  `json:"kind"`
	RowCount      int     `json:"rowCount"`
	MarkupPercent float64 `json:"markupPercent"`
	GrandTotal    string  `json:"grandTotal"`
	Created       string  `json:"created"`
}

// HandleEstimateList lists the estimate tables of a project. Totals come from
// the grid store, so they reflect the last saved state.
func HandleEstimateList(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			log.Printf("estimate_list: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		records, err := app.FindRecordsByFilter(
			services.EstimateTablesCollection,
			"project = {:projectId}",
			"created", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			log.Printf("estimate_list: could not query estimate tables: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to load estimates")
		}

		items := make([]estimateListItem, 0, len(records))
		for _, rec := range records {
			table, err := reg.Store().Load(e.Request.Context(), rec.Id)
			if err != nil && !errors.Is(err, services.ErrTableNotFound) {
				log.Printf("estimate_list: could not load table %s: %v", rec.Id, err)
			}
			totals := services.Summarize(table.Rows)

			created := ""
			if dt := rec.GetDateTime("created"); !dt.IsZero() {
				created = dt.Time().Format("02 Jan 2006")
			}
			items = append(items, estimateListItem{
				ID:            rec.Id,
				Title:         rec.GetString("title"),
				Kind:          rec.GetString("kind"),
				RowCount:      len(table.Rows),
				MarkupPercent: table.MarkupPercent,
				GrandTotal:    services.FormatAmount(totals.GrandTotal),
				Created:       created,
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}
