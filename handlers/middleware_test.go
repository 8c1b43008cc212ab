package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"

	"costestimator/testhelpers"
)

func TestGetEstimateTable_FromContext(t *testing.T) {
	expected := &core.Record{}
	expected.Id = "tbl123"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), EstimateTableKey, expected))

	got := GetEstimateTable(req)
	if got == nil || got.Id != "tbl123" {
		t.Fatalf("expected record tbl123, got %v", got)
	}
}

func TestGetEstimateTable_NotInContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetEstimateTable(req); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestEstimateTableMiddleware(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Middleware Project")
	other := testhelpers.CreateTestProject(t, app, "Other Project")
	table := testhelpers.CreateTestEstimateTable(t, app, proj.Id, "Middleware BOQ", "boq")

	tests := []struct {
		name      string
		projectID string
		tableID   string
		wantCode  int
	}{
		{"found", proj.Id, table.Id, http.StatusOK},
		{"wrong project", other.Id, table.Id, http.StatusNotFound},
		{"unknown table", proj.Id, "missing", http.StatusNotFound},
		{"empty id", proj.Id, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.SetPathValue("projectId", tt.projectID)
			req.SetPathValue("id", tt.tableID)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			// e.Next() with no handler chain returns nil in PocketBase.
			if err := EstimateTableMiddleware(app)(e); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}

			if tt.wantCode != http.StatusOK {
				if rec.Code != tt.wantCode {
					t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
				}
				if GetEstimateTable(e.Request) != nil {
					t.Error("expected no table in context")
				}
				return
			}
			got := GetEstimateTable(e.Request)
			if got == nil || got.Id != table.Id {
				t.Fatalf("expected table %s in context, got %v", table.Id, got)
			}
		})
	}
}
