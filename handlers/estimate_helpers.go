package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

const persistWarning = "Your change is kept on screen but could not be saved. It will be saved with your next change."

// estimateResponse is the JSON shape of an estimate table returned by every
// grid endpoint.
type estimateResponse struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId"`
	Title     string            `json:"title"`
	Kind      string            `json:"kind"`
	Table     services.Table    `json:"table"`
	Totals    services.Totals   `json:"totals"`
	Formatted map[string]string `json:"formatted"`
	UndoDepth int               `json:"undoDepth"`
	Warning   string            `json:"warning,omitempty"`

	Import *services.ImportResult `json:"import,omitempty"`
}

func newEstimateResponse(rec *core.Record, table services.Table, undoDepth int) estimateResponse {
	totals := services.Summarize(table.Rows)
	return estimateResponse{
		ID:        rec.Id,
		ProjectID: rec.GetString("project"),
		Title:     rec.GetString("title"),
		Kind:      rec.GetString("kind"),
		Table:     table,
		Totals:    totals,
		Formatted: map[string]string{
			"subtotals":  services.FormatAmount(totals.Subtotals),
			"total":      services.FormatAmount(totals.Total),
			"markup":     services.FormatAmount(totals.Markup),
			"grandTotal": services.FormatAmount(totals.GrandTotal),
		},
		UndoDepth: undoDepth,
	}
}

// openEditor returns the live editor of rec. Columns stored on the record
// seed tables that the grid store has not seen yet.
func openEditor(e *core.RequestEvent, reg *services.EditorRegistry, rec *core.Record) (*services.Editor, error) {
	var opts []services.EditorOption
	if stored, err := services.TableFromRecord(rec); err == nil {
		opts = append(opts, services.WithColumns(stored.Columns))
	}
	return reg.Get(e.Request.Context(), rec.Id, opts...)
}

// withEditor resolves the estimate table of the request, opens its editor and
// runs fn. The table state after fn is written back as JSON; fn errors are
// mapped by respondEditorError.
func withEditor(
	app *pocketbase.PocketBase,
	reg *services.EditorRegistry,
	area string,
	fn func(e *core.RequestEvent, ed *services.Editor) error,
) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := estimateFromRequest(app, e)
		if err != nil {
			log.Printf("%s: could not find estimate table: %v", area, err)
			return ErrorToast(e, http.StatusNotFound, "Estimate table not found")
		}
		ed, err := openEditor(e, reg, rec)
		if err != nil {
			log.Printf("%s: open editor %s: %v", area, rec.Id, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := fn(e, ed); err != nil {
			return respondEditorError(e, area, rec, ed, err)
		}
		return e.JSON(http.StatusOK, newEstimateResponse(rec, ed.Snapshot(), ed.UndoDepth()))
	}
}

// respondEditorError maps editor errors to responses. A persistence failure
// keeps the in-memory change, so the table is returned with a warning.
func respondEditorError(e *core.RequestEvent, area string, rec *core.Record, ed *services.Editor, err error) error {
	var persistErr *services.PersistError
	var bad badRequest
	switch {
	case errors.As(err, &persistErr):
		log.Printf("%s: %v", area, err)
		SetToast(e, "warning", persistWarning)
		resp := newEstimateResponse(rec, ed.Snapshot(), ed.UndoDepth())
		resp.Warning = persistWarning
		return e.JSON(http.StatusOK, resp)

	case errors.As(err, &bad):
		return ErrorToast(e, http.StatusBadRequest, bad.msg)
	case services.IsValidation(err):
		return ErrorToast(e, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrNotEditable):
		return ErrorToast(e, http.StatusBadRequest, "This cell cannot be edited")
	case errors.Is(err, services.ErrInvalidOrder):
		return ErrorToast(e, http.StatusBadRequest, "The new order must list every row exactly once")
	case errors.Is(err, services.ErrDuplicateColumn):
		return ErrorToast(e, http.StatusBadRequest, "A column with this name already exists")
	case errors.Is(err, services.ErrFixedColumn):
		return ErrorToast(e, http.StatusBadRequest, "Built-in columns cannot be removed")

	case errors.Is(err, services.ErrRowNotFound):
		return ErrorToast(e, http.StatusNotFound, "Row not found")
	case errors.Is(err, services.ErrColumnNotFound):
		return ErrorToast(e, http.StatusNotFound, "Column not found")
	}

	log.Printf("%s: table %s: %v", area, rec.Id, err)
	return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// badRequest is returned by withEditor callbacks for malformed bodies.
type badRequest struct{ msg string }

func (b badRequest) Error() string { return b.msg }
