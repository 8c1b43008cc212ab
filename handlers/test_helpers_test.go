package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"costestimator/services"
	"costestimator/testhelpers"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// estimateFixture is a test app with one project, one empty BOQ and an
// editor registry backed by the records store.
type estimateFixture struct {
	app     *pocketbase.PocketBase
	reg     *services.EditorRegistry
	project *core.Record
	table   *core.Record
}

func newEstimateFixture(t *testing.T) *estimateFixture {
	t.Helper()
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Fixture Project")
	table := testhelpers.CreateTestEstimateTable(t, app, project.Id, "Fixture BOQ", "boq")
	return &estimateFixture{
		app:     app,
		reg:     services.NewEditorRegistry(services.NewRecordStore(app)),
		project: project,
		table:   table,
	}
}

// call runs handler against the fixture table. body is JSON-encoded when not
// nil; extra path values are given as name/value pairs.
func (f *estimateFixture) call(t *testing.T, handler func(*core.RequestEvent) error, method string, body any, pathValues ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, "/projects/"+f.project.Id+"/estimates/"+f.table.Id, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetPathValue("projectId", f.project.Id)
	req.SetPathValue("id", f.table.Id)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}

	rec := httptest.NewRecorder()
	if err := handler(newTestRequestEvent(f.app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

// decodeEstimate parses an estimateResponse body.
func decodeEstimate(t *testing.T, rec *httptest.ResponseRecorder) estimateResponse {
	t.Helper()
	var resp estimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return resp
}

// rowKeys returns the keys of the rows in resp, in order.
func rowKeys(resp estimateResponse) []string {
	keys := make([]string, len(resp.Table.Rows))
	for i, r := range resp.Table.Rows {
		keys[i] = r.Key
	}
	return keys
}
