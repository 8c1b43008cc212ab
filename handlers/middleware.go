package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const EstimateTableKey contextKey = "estimateTable"

var errEstimateNotInProject = errors.New("estimate table belongs to another project")

// GetEstimateTable returns the estimate_tables record resolved by
// EstimateTableMiddleware, or nil.
func GetEstimateTable(r *http.Request) *core.Record {
	if val, ok := r.Context().Value(EstimateTableKey).(*core.Record); ok {
		return val
	}
	return nil
}

// EstimateTableMiddleware resolves the {projectId}/{id} path values to an
// estimate_tables record of that project and stores it in the request
// context. Unknown tables, and tables of another project, get a 404.
func EstimateTableMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findEstimateTable(app, e.Request.PathValue("projectId"), e.Request.PathValue("id"))
		if err != nil {
			log.Printf("middleware: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
		}

		ctx := context.WithValue(e.Request.Context(), EstimateTableKey, rec)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}

// estimateFromRequest returns the record stored by EstimateTableMiddleware,
// looking it up when the middleware did not run.
func estimateFromRequest(app *pocketbase.PocketBase, e *core.RequestEvent) (*core.Record, error) {
	if rec := GetEstimateTable(e.Request); rec != nil {
		return rec, nil
	}
	return findEstimateTable(app, e.Request.PathValue("projectId"), e.Request.PathValue("id"))
}

func findEstimateTable(app *pocketbase.PocketBase, projectID, tableID string) (*core.Record, error) {
	if tableID == "" {
		return nil, errors.New("missing estimate table id")
	}
	rec, err := app.FindRecordById("estimate_tables", tableID)
	if err != nil {
		return nil, err
	}
	if projectID != "" && rec.GetString("project") != projectID {
		return nil, errEstimateNotInProject
	}
	return rec, nil
}
