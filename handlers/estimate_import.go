package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

// HandleRowsImport appends the rows of an uploaded .csv or .xlsx file to the
// table. Row-level problems are reported alongside the updated table.
func HandleRowsImport(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := estimateFromRequest(app, e)
		if err != nil {
			log.Printf("rows_import: could not find estimate table: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
		}

		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please choose a file to import")
		}
		defer file.Close()

		result, err := services.ImportRows(file, header.Filename)
		if errors.Is(err, services.ErrUnsupportedImport) {
			return ErrorToast(e, http.StatusBadRequest, "Unsupported file format. Please upload a .csv or .xlsx file.")
		}
		if err != nil {
			log.Printf("rows_import: %s: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, "Could not read the uploaded file")
		}

		ed, err := openEditor(e, reg, rec)
		if err != nil {
			log.Printf("rows_import: open editor %s: %v", rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		if err := ed.AppendRows(e.Request.Context(), result.Rows); err != nil {
			return respondEditorError(e, "rows_import", rec, ed, err)
		}

		log.Printf("rows_import: %s: imported %d of %d rows into %s", header.Filename, result.Imported, result.TotalRows, rec.Id)
		msg := fmt.Sprintf("Imported %d rows", result.Imported)
		if len(result.Issues) > 0 {
			msg = fmt.Sprintf("Imported %d rows with %d issues", result.Imported, len(result.Issues))
			SetToast(e, "warning", msg)
		} else {
			SetToast(e, "success", msg)
		}

		resp := newEstimateResponse(rec, ed.Snapshot(), ed.UndoDepth())
		resp.Import = result
		return e.JSON(http.StatusOK, resp)
	}
}
