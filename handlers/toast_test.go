package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase/core"
)

func newToastEvent() (*core.RequestEvent, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	e := &core.RequestEvent{}
	e.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	e.Response = rec
	return e, rec
}

func parseToast(t *testing.T, header string) (map[string]json.RawMessage, map[string]string) {
	t.Helper()
	if header == "" {
		t.Fatal("expected HX-Trigger header to be set")
	}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(header), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	var toast map[string]string
	if err := json.Unmarshal(parsed["showToast"], &toast); err != nil {
		t.Fatalf("showToast is not valid JSON: %v", err)
	}
	return parsed, toast
}

func TestSetToast(t *testing.T) {
	tests := []struct {
		name      string
		existing  string
		toastType string
		message   string
		keepKey   string
	}{
		{"success", "", "success", "Rows inserted", ""},
		{"warning", "", "warning", "Changes could not be saved", ""},
		{"special characters", "", "info", `<script>alert("x")</script>` + "\nline2", ""},
		{"merges with existing", `{"gridChanged":{"table":"t1"}}`, "success", "Merged", "gridChanged"},
		{"overwrites invalid existing", "notValidJSON", "error", "Overwritten", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()
			if tt.existing != "" {
				rec.Header().Set("HX-Trigger", tt.existing)
			}

			SetToast(e, tt.toastType, tt.message)

			parsed, toast := parseToast(t, rec.Header().Get("HX-Trigger"))
			if toast["type"] != tt.toastType || toast["message"] != tt.message {
				t.Errorf("toast = %v, want type %q message %q", toast, tt.toastType, tt.message)
			}
			if tt.keepKey != "" {
				if _, ok := parsed[tt.keepKey]; !ok {
					t.Errorf("expected %q to be preserved after merge", tt.keepKey)
				}
			}
		})
	}
}

func TestErrorToast(t *testing.T) {
	tests := []struct {
		name string
		code int
		msg  string
	}{
		{"bad request", http.StatusBadRequest, "Invalid input"},
		{"not found", http.StatusNotFound, "Table not found"},
		{"server error", http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newToastEvent()

			if err := ErrorToast(e, tt.code, tt.msg); err != nil {
				t.Fatalf("ErrorToast returned error: %v", err)
			}

			if rec.Code != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
			_, toast := parseToast(t, rec.Header().Get("HX-Trigger"))
			if toast["type"] != "error" || toast["message"] != tt.msg {
				t.Errorf("toast = %v", toast)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("body is not JSON: %v", err)
			}
			if body["error"] != tt.msg {
				t.Errorf("body error = %q, want %q", body["error"], tt.msg)
			}
		})
	}
}
