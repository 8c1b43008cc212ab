package handlers

import (
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"costestimator/services"
)

type insertRowsRequest struct {
	Kind  string `json:"kind"`
	Count any    `json:"count"`
	After string `json:"after"`
}

type editCellRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type reorderRequest struct {
	Keys []string `json:"keys"`
}

type markupRequest struct {
	MarkupPercent any `json:"markupPercent"`
}

type columnRequest struct {
	Name       string `json:"name"`
	Subheaders any    `json:"subheaders"`
}

var errInvalidBody = badRequest{"Invalid request body"}

// HandleEstimateView opens (or joins) the editing session of a table and
// returns its current state.
func HandleEstimateView(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "estimate_view", func(e *core.RequestEvent, ed *services.Editor) error {
		return nil
	})
}

// HandleRowsInsert inserts rows of one kind. Only regular rows honour count.
func HandleRowsInsert(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "rows_insert", func(e *core.RequestEvent, ed *services.Editor) error {
		var req insertRowsRequest
		if err := e.BindBody(&req); err != nil {
			return errInvalidBody
		}
		kind := services.RowRegular
		if req.Kind != "" {
			k, err := services.ParseRowKind(req.Kind)
			if err != nil {
				return badRequest{"Unknown row kind"}
			}
			kind = k
		}

		count := 1
		if req.Count != nil {
			n, err := cast.ToIntE(req.Count)
			if err != nil {
				return badRequest{"enter a valid number of rows"}
			}
			count = n
		}
		return ed.InsertRows(e.Request.Context(), kind, count, req.After)
	})
}

// HandleRowsDeleteAll clears every row of the table.
func HandleRowsDeleteAll(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "rows_delete_all", func(e *core.RequestEvent, ed *services.Editor) error {
		return ed.DeleteAllRows(e.Request.Context())
	})
}

// HandleRowsReorder applies a new row order given as the full list of row
// keys.
func HandleRowsReorder(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "rows_reorder", func(e *core.RequestEvent, ed *services.Editor) error {
		var req reorderRequest
		if err := e.BindBody(&req); err != nil {
			return errInvalidBody
		}
		return ed.Reorder(e.Request.Context(), req.Keys)
	})
}

// HandleCellEdit stores one edited cell of the row named in the path.
func HandleCellEdit(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "cell_edit", func(e *core.RequestEvent, ed *services.Editor) error {
		var req editCellRequest
		if err := e.BindBody(&req); err != nil {
			return errInvalidBody
		}
		if req.Field == "" {
			return badRequest{"Missing field"}
		}
		raw, err := cast.ToStringE(req.Value)
		if err != nil {
			return badRequest{"Invalid cell value"}
		}
		return ed.EditCell(e.Request.Context(), e.Request.PathValue("rowKey"), req.Field, raw)
	})
}

// HandleRowDelete removes the row named in the path.
func HandleRowDelete(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "row_delete", func(e *core.RequestEvent, ed *services.Editor) error {
		return ed.DeleteRow(e.Request.Context(), e.Request.PathValue("rowKey"))
	})
}

// HandleUndo reverts the most recent structural change.
func HandleUndo(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "undo", func(e *core.RequestEvent, ed *services.Editor) error {
		undone, err := ed.Undo(e.Request.Context())
		if err == nil && !undone {
			SetToast(e, "info", "Nothing to undo")
		}
		return err
	})
}

// HandleMarkupUpdate sets the markup percentage. The value may arrive as a
// number or as the raw text of the markup input.
func HandleMarkupUpdate(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "markup_update", func(e *core.RequestEvent, ed *services.Editor) error {
		var req markupRequest
		if err := e.BindBody(&req); err != nil {
			return errInvalidBody
		}
		if req.MarkupPercent == nil {
			return badRequest{"enter a valid markup percentage"}
		}
		var (
			percent float64
			err     error
		)
		if text, ok := req.MarkupPercent.(string); ok {
			percent, err = services.ParseAmountE(text)
		} else {
			percent, err = cast.ToFloat64E(req.MarkupPercent)
		}
		if err != nil {
			return badRequest{"enter a valid markup percentage"}
		}
		return ed.SetMarkup(e.Request.Context(), percent)
	})
}

// HandleColumnAdd adds a user-defined column with one or two sub-headers.
func HandleColumnAdd(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "column_add", func(e *core.RequestEvent, ed *services.Editor) error {
		var req columnRequest
		if err := e.BindBody(&req); err != nil {
			return errInvalidBody
		}
		subheaders, err := cast.ToIntE(req.Subheaders)
		if err != nil {
			return badRequest{"choose 1 or 2 sub-headers"}
		}
		return ed.AddColumn(e.Request.Context(), req.Name, subheaders)
	})
}

// HandleColumnRemove removes the user-defined column named in the path.
func HandleColumnRemove(app *pocketbase.PocketBase, reg *services.EditorRegistry) func(*core.RequestEvent) error {
	return withEditor(app, reg, "column_remove", func(e *core.RequestEvent, ed *services.Editor) error {
		return ed.RemoveColumn(e.Request.Context(), e.Request.PathValue("field"))
	})
}
