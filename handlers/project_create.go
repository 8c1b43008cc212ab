package handlers

import (
	"log"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/collections"
)

type projectRequest struct {
	Name            string `json:"name"`
	ClientName      string `json:"clientName"`
	ReferenceNumber string `json:"referenceNumber"`
	Status          string `json:"status"`
}

func (r *projectRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ReferenceNumber = strings.TrimSpace(r.ReferenceNumber)
	r.Status = strings.TrimSpace(r.Status)
	if r.Status == "" {
		r.Status = "active"
	}
}

func (r projectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("Project name is required"),
			validation.Length(1, 200).Error("Project name must be at most 200 characters"),
		),
		validation.Field(&r.Status, validation.In(toAny(collections.ProjectStatuses)...).Error("Invalid project status")),
	)
}

// HandleProjectCreate creates a project from a JSON body.
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req projectRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		req.normalize()
		if err := req.Validate(); err != nil {
			SetToast(e, "error", err.Error())
			e.Response.Header().Set("HX-Reswap", "none")
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid project", "fields": err})
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("name", req.Name)
		record.Set("client_name", req.ClientName)
		record.Set("reference_number", req.ReferenceNumber)
		record.Set("status", req.Status)
		if err := app.Save(record); err != nil {
			log.Printf("project_create: failed to save project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to create project")
		}

		log.Printf("project_create: created project %s (%s)", record.Id, req.Name)
		SetToast(e, "success", "Project created")
		return e.JSON(http.StatusCreated, newProjectResponse(record, 0))
	}
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
