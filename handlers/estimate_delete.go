package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

// HandleEstimateDelete deletes an estimate table, its live editor and any
// copy held by a separate grid store.
func HandleEstimateDelete(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := estimateFromRequest(app, e)
		if err != nil {
			log.Printf("estimate_delete: could not find estimate table: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("estimate_delete: failed to delete %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete estimate")
		}
		discardEstimate(e, reg, rec.Id)

		log.Printf("estimate_delete: deleted estimate table %s", rec.Id)
		SetToast(e, "success", "Estimate deleted")
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleEstimateSessionClose drops the live editor of a table when its view
// is torn down. The undo history goes with it; saved rows are kept.
func HandleEstimateSessionClose(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := estimateFromRequest(app, e)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
		}
		reg.Close(rec.Id)
		return e.NoContent(http.StatusNoContent)
	}
}

// discardEstimate closes the editor of a deleted table and removes the table
// from stores that keep grids outside the record.
func discardEstimate(e *core.RequestEvent, reg *services.EditorRegistry, tableID string) {
	reg.Close(tableID)
	deleter, ok := reg.Store().(services.TableDeleter)
	if !ok {
		return
	}
	if err := deleter.Delete(e.Request.Context(), tableID); err != nil {
		log.Printf("estimate_delete: could not remove grid %s from store: %v", tableID, err)
	}
}
