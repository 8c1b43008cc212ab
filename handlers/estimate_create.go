package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/collections"
	"costestimator/services"
)

type estimateCreateRequest struct {
	Title  string `json:"title"`
	Kind   string `json:"kind"`
	Preset string `json:"preset"`
}

func (r estimateCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required")),
		validation.Field(&r.Kind,
			validation.Required.Error("Kind is required"),
			validation.In(toAny(collections.EstimateKinds)...).Error("Kind must be boq or bom"),
		),
	)
}

// HandleEstimateCreate creates an empty estimate table in a project. The
// column layout comes from the named preset, which defaults to the kind.
func HandleEstimateCreate(app *pocketbase.PocketBase, presets services.ColumnPresets) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("projectId")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			log.Printf("estimate_create: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		var req estimateCreateRequest
		if err := e.BindBody(&req); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid request body")
		}
		req.Title = strings.TrimSpace(req.Title)
		req.Kind = strings.ToLower(strings.TrimSpace(req.Kind))
		if err := req.Validate(); err != nil {
			SetToast(e, "error", err.Error())
			e.Response.Header().Set("HX-Reswap", "none")
			return e.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid estimate", "fields": err})
		}

		preset := strings.TrimSpace(req.Preset)
		if preset == "" {
			preset = req.Kind
		}
		columns, err := presets.Columns(preset)
		if errors.Is(err, services.ErrUnknownPreset) {
			return ErrorToast(e, http.StatusBadRequest, "Unknown column preset")
		}
		if err != nil {
			log.Printf("estimate_create: preset %q: %v", preset, err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to create estimate")
		}

		col, err := app.FindCollectionByNameOrId(services.EstimateTablesCollection)
		if err != nil {
			log.Printf("estimate_create: could not find estimate_tables collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Internal error")
		}

		record := core.NewRecord(col)
		record.Set("project", projectID)
		record.Set("title", req.Title)
		record.Set("kind", req.Kind)
		record.Set("markup_percent", 0)
		record.Set("rows", services.Rows{})
		record.Set("columns", columns)
		if err := app.Save(record); err != nil {
			log.Printf("estimate_create: failed to save estimate table: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to create estimate")
		}

		log.Printf("estimate_create: created %s %s (%s) with preset %s", req.Kind, record.Id, req.Title, preset)
		SetToast(e, "success", "Estimate created")
		return e.JSON(http.StatusCreated, newEstimateResponse(record, services.NewTable(record.Id, columns), 0))
	}
}
