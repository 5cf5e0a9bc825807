package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/safetrip/backend/internal/metrics"
	chatservice "github.com/safetrip/backend/internal/service/chat"
)

func setupRouter(t *testing.T) (*chi.Mux, string, *metrics.Collectors) {
	t.Helper()
	chatSvc := chatservice.NewService()
	session, err := chatSvc.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("CreateSession err: %v", err)
	}
	collectors := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	New(chatSvc, collectors).RegisterRoutes(r)
	return r, session.ID, collectors
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAddThenDeleteLeavesEmptyList(t *testing.T) {
	r, sessionID, _ := setupRouter(t)
	base := "/session/" + sessionID + "/contacts"

	if resp := do(r, http.MethodPost, base, []byte(`{"name":"A","phone":"123"}`)); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if resp := do(r, http.MethodDelete, base+"/0", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp := do(r, http.MethodGet, base, nil)
	var body struct {
		Contacts []map[string]string `json:"contacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Contacts) != 0 {
		t.Fatalf("expected no contacts, got %+v", body.Contacts)
	}
}

func TestAddContactValidation(t *testing.T) {
	r, sessionID, _ := setupRouter(t)

	resp := do(r, http.MethodPost, "/session/"+sessionID+"/contacts", []byte(`{"name":"A"}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestDeleteContactBadIndex(t *testing.T) {
	r, sessionID, _ := setupRouter(t)
	base := "/session/" + sessionID + "/contacts"

	if resp := do(r, http.MethodDelete, base+"/abc", nil); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if resp := do(r, http.MethodDelete, base+"/0", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestAlertAllReturnsCount(t *testing.T) {
	r, sessionID, collectors := setupRouter(t)
	base := "/session/" + sessionID + "/contacts"

	do(r, http.MethodPost, base, []byte(`{"name":"A","phone":"1"}`))
	do(r, http.MethodPost, base, []byte(`{"name":"B","phone":"2"}`))

	resp := do(r, http.MethodPost, base+"/alert", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Confirmation string `json:"confirmation"`
		Count        int    `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Count != 2 || body.Confirmation != "🚨 Alert sent to 2 emergency contact(s)." {
		t.Fatalf("unexpected alert body: %+v", body)
	}

	resp = do(r, http.MethodPost, base+"/1/alert", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := testutil.ToFloat64(collectors.Alerts); got != 3 {
		t.Fatalf("expected 3 alerts counted, got %v", got)
	}
}

func TestContactsUnknownSession(t *testing.T) {
	r, _, _ := setupRouter(t)

	if resp := do(r, http.MethodGet, "/session/missing/contacts", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
