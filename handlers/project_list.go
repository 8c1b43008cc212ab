package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// projectResponse is the JSON shape of a project with its estimate count.
type projectResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	ClientName      string `json:"clientName"`
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
	Created         string `json:"created"`
	EstimateCount   int    `json:"estimateCount"`
}

func newProjectResponse(rec *core.Record, estimates int) projectResponse {
	created := ""
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		created = dt.Time().Format("02 Jan 2006")
	}
	return projectResponse{
		ID:              rec.Id,
		Name:            rec.GetString("name"),
		ClientName:      rec.GetString("client_name"),
		ReferenceNumber: rec.GetString("reference_number"),
		Status:          rec.GetString("status"),
		Created:         created,
		EstimateCount:   estimates,
	}
}

// HandleProjectList returns every project with the number of estimate tables
// each one holds.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := app.FindAllRecords("projects")
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to load projects")
		}

		counts := map[string]int{}
		tables, err := app.FindAllRecords("estimate_tables")
		if err != nil {
			log.Printf("project_list: could not count estimate tables: %v", err)
		}
		for _, t := range tables {
			counts[t.GetString("project")]++
		}

		items := make([]projectResponse, 0, len(projects))
		for _, p := range projects {
			items = append(items, newProjectResponse(p, counts[p.Id]))
		}
		return e.JSON(http.StatusOK, map[string]any{"items": items})
	}
}
