package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

// HandleProjectDelete deletes a project. Its estimate tables go with it
// through the cascading relation; their live editors are closed first.
func HandleProjectDelete(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing project ID")
		}

		projectRecord, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_delete: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		tables, err := app.FindRecordsByFilter(
			services.EstimateTablesCollection,
			"project = {:projectId}",
			"", 0, 0,
			map[string]any{"projectId": projectID},
		)
		if err != nil {
			tables = nil
		}

		if err := app.Delete(projectRecord); err != nil {
			log.Printf("project_delete: failed to delete project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to delete project")
		}

		for _, t := range tables {
			discardEstimate(e, reg, t.Id)
		}

		log.Printf("project_delete: deleted project %s (estimate_count=%d)", projectID, len(tables))
		SetToast(e, "success", "Project deleted")
		return e.NoContent(http.StatusNoContent)
	}
}
