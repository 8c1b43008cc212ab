package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
	"costestimator/templates"
)

var errEstimateNotFound = errors.New("estimate table not found")

// buildExportData lays out the live state of an estimate table together with
// its project heading.
func buildExportData(app *pocketbase.PocketBase, reg *services.EditorRegistry, e *core.RequestEvent) (services.ExportData, error) {
	rec, err := estimateFromRequest(app, e)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("%w: %w", errEstimateNotFound, err)
	}
	ed, err := openEditor(e, reg, rec)
	if err != nil {
		return services.ExportData{}, fmt.Errorf("open editor %s: %w", rec.Id, err)
	}

	meta := services.ExportMeta{Title: rec.GetString("title")}
	if dt := rec.GetDateTime("created"); !dt.IsZero() {
		meta.CreatedDate = dt.Time().Format("02 Jan 2006")
	}
	if project, err := app.FindRecordById("projects", rec.GetString("project")); err == nil {
		meta.ProjectName = project.GetString("name")
		meta.ClientName = project.GetString("client_name")
		meta.ReferenceNumber = project.GetString("reference_number")
	}

	return services.BuildExportData(ed.Snapshot(), meta), nil
}

// exportLoadError answers a buildExportData failure: 404 when the table does
// not exist, 500 when it could not be loaded.
func exportLoadError(e *core.RequestEvent, area string, err error) error {
	log.Printf("%s: %v", area, err)
	if errors.Is(err, errEstimateNotFound) {
		return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
	}
	return ErrorToast(e, http.StatusInternalServerError, "Failed to load estimate table")
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}

func exportFilename(data services.ExportData, ext string) string {
	return fmt.Sprintf("Estimate_%s_%d.%s", sanitizeFilename(data.Title), time.Now().Year(), ext)
}

// HandleEstimateExportExcel returns a handler that generates and downloads an
// Excel file for an estimate table.
func HandleEstimateExportExcel(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExportData(app, reg, e)
		if err != nil {
			return exportLoadError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateEstimateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleEstimateExportPDF returns a handler that generates and downloads a PDF
// file for an estimate table.
func HandleEstimateExportPDF(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExportData(app, reg, e)
		if err != nil {
			return exportLoadError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GenerateEstimatePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleEstimatePrint renders a printable HTML page of an estimate table.
func HandleEstimatePrint(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := buildExportData(app, reg, e)
		if err != nil {
			return exportLoadError(e, "export_print", err)
		}

		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.EstimatePrintView(data).Render(e.Request.Context(), e.Response); err != nil {
			log.Printf("export_print: render: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to render print view")
		}
		return nil
	}
}
