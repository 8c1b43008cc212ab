package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"

	"costestimator/collections"
	"costestimator/handlers"
	"costestimator/services"
)

func main() {
	app := pocketbase.New()

	var (
		undoDepth   int
		gridStore   string
		presetsPath string
	)
	app.RootCmd.PersistentFlags().IntVar(&undoDepth, "undoDepth", 50,
		"number of structural changes each open estimate can undo")
	app.RootCmd.PersistentFlags().StringVar(&gridStore, "gridStore", "records",
		"where estimate grids are stored: records or dynamodb")
	app.RootCmd.PersistentFlags().StringVar(&presetsPath, "presets", "",
		"optional YAML file with column presets (defaults to the built-in presets)")

	app.RootCmd.AddCommand(&cobra.Command{
		Use:   "recalc",
		Short: "Recalculate and re-save every stored estimate table",
		RunE: func(cmd *cobra.Command, args []string) error {
			collections.Setup(app)
			store, err := newTableStore(app, gridStore)
			if err != nil {
				return err
			}
			n, err := services.RecalculateAll(context.Background(), app, store)
			if err != nil {
				return err
			}
			fmt.Printf("Recalculated %d estimate tables\n", n)
			return nil
		},
	})

	// Create collections, seed and migrate data on startup, then recalculate
	// every grid through the selected store.
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		// Legacy flags only ever existed on the records themselves.
		if err := services.MigrateLegacyRowFlags(app); err != nil {
			log.Printf("Warning: legacy row migration failed: %v", err)
		}

		store, err := newTableStore(app, gridStore)
		if err != nil {
			return err
		}
		if n, err := services.RecalculateAll(context.Background(), app, store); err != nil {
			log.Printf("Warning: recalculation failed: %v", err)
		} else {
			log.Printf("Recalculated %d estimate tables", n)
		}

		presets := services.DefaultColumnPresets()
		if presetsPath != "" {
			if presets, err = services.LoadColumnPresets(presetsPath); err != nil {
				return err
			}
		}
		reg := services.NewEditorRegistry(store, services.WithUndoDepth(undoDepth))
		log.Printf("Estimate grids stored in %q (undo depth %d, presets %v)", gridStore, undoDepth, presets.Names())

		// ── Projects ─────────────────────────────────────────────
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.POST("/projects", handlers.HandleProjectCreate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app, reg))

		// ── Estimate tables ──────────────────────────────────────
		se.Router.GET("/estimates/options", handlers.HandleEstimateOptions(presets))
		se.Router.GET("/projects/{projectId}/estimates", handlers.HandleEstimateList(app, reg))
		se.Router.POST("/projects/{projectId}/estimates", handlers.HandleEstimateCreate(app, presets))

		g := se.Router.Group("/projects/{projectId}/estimates/{id}")
		g.BindFunc(handlers.EstimateTableMiddleware(app))

		g.GET("", handlers.HandleEstimateView(app, reg))
		g.DELETE("", handlers.HandleEstimateDelete(app, reg))
		g.DELETE("/session", handlers.HandleEstimateSessionClose(app, reg))

		// Grid editing
		g.POST("/rows", handlers.HandleRowsInsert(app, reg))
		g.DELETE("/rows", handlers.HandleRowsDeleteAll(app, reg))
		g.PUT("/rows/order", handlers.HandleRowsReorder(app, reg))
		g.PATCH("/rows/{rowKey}", handlers.HandleCellEdit(app, reg))
		g.DELETE("/rows/{rowKey}", handlers.HandleRowDelete(app, reg))
		g.POST("/undo", handlers.HandleUndo(app, reg))
		g.PUT("/markup", handlers.HandleMarkupUpdate(app, reg))
		g.POST("/columns", handlers.HandleColumnAdd(app, reg))
		g.DELETE("/columns/{field}", handlers.HandleColumnRemove(app, reg))
		g.POST("/import", handlers.HandleRowsImport(app, reg))

		// Export
		g.GET("/export/excel", handlers.HandleEstimateExportExcel(app, reg))
		g.GET("/export/pdf", handlers.HandleEstimateExportPDF(app, reg))
		g.GET("/print", handlers.HandleEstimatePrint(app, reg))

		// Redirect home to projects list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// newTableStore builds the grid store selected by --gridStore.
func newTableStore(app *pocketbase.PocketBase, kind string) (services.TableStore, error) {
	switch kind {
	case "", "records":
		return services.NewRecordStore(app), nil
	case "dynamodb":
		client, err := services.NewDynamoClientFromEnv(context.Background())
		if err != nil {
			return nil, fmt.Errorf("dynamodb grid store: %w", err)
		}
		return services.NewDynamoStore(client), nil
	}
	return nil, fmt.Errorf("unknown grid store %q (want records or dynamodb)", kind)
}
