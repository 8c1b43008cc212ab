package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
)

type presetOption struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// HandleEstimateOptions returns the dropdown choices of the grid editor:
// units, markup percentages, insertable row kinds and column presets.
func HandleEstimateOptions(presets services.ColumnPresets) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		opts := make([]presetOption, 0, len(presets))
		for _, name := range presets.Names() {
			opts = append(opts, presetOption{Name: name, Label: presets[name].Label})
		}
		return e.JSON(http.StatusOK, map[string]any{
			"units":         services.UnitOptions,
			"markupOptions": services.MarkupOptions,
			"rowKinds":      services.RowKindOptions,
			"presets":       opts,
			"maxInsertRows": services.MaxInsertRows,
		})
	}
}
