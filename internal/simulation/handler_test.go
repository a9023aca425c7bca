package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SimStruct/internal/auth"
	"SimStruct/internal/predict"

	"github.com/gorilla/mux"
)

func newTestRouter(p *stubPredictor) (*mux.Router, *Service) {
	svc, _, _ := newTestService(p)
	h := &Handler{Service: svc}
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/simulations").Subrouter())
	return r, svc
}

func do(t *testing.T, r http.Handler, method, path string, userID int, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerCreateAndGet(t *testing.T) {
	r, _ := newTestRouter(&stubPredictor{p: healthyPrediction()})

	w := do(t, r, "POST", "/simulations", 1, validRequest())
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var sim Simulation
	if err := json.NewDecoder(w.Body).Decode(&sim); err != nil {
		t.Fatal(err)
	}
	if sim.Status != Completed || sim.Result == nil {
		t.Fatalf("created = %+v", sim)
	}

	if w := do(t, r, "GET", "/simulations/"+sim.ID, 1, nil); w.Code != http.StatusOK {
		t.Errorf("owner get: %d", w.Code)
	}
	if w := do(t, r, "GET", "/simulations/"+sim.ID, 2, nil); w.Code != http.StatusForbidden {
		t.Errorf("stranger get: %d", w.Code)
	}
	if w := do(t, r, "GET", "/simulations/nope", 1, nil); w.Code != http.StatusNotFound {
		t.Errorf("missing get: %d", w.Code)
	}
	if w := do(t, r, "GET", "/simulations/"+sim.ID+"/report", 1, nil); w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("report: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if w := do(t, r, "GET", "/simulations/recent", 1, nil); w.Code != http.StatusOK {
		t.Errorf("recent: %d", w.Code)
	}
}

func TestHandlerErrors(t *testing.T) {
	bad := validRequest()
	bad.BeamLength = -1

	tests := []struct {
		name   string
		p      *stubPredictor
		userID int
		body   any
		code   int
	}{
		{"unauthenticated", &stubPredictor{}, 0, validRequest(), http.StatusUnauthorized},
		{"invalid beam", &stubPredictor{}, 1, bad, http.StatusBadRequest},
		{"service error", &stubPredictor{err: &predict.ServiceError{StatusCode: 500}}, 1, validRequest(), http.StatusBadGateway},
		{"unavailable", &stubPredictor{err: &predict.UnavailableError{URL: "x"}}, 1, validRequest(), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(tt.p)
			w := do(t, r, "POST", "/simulations", tt.userID, tt.body)
			if w.Code != tt.code {
				t.Errorf("Expected status %d, got %d", tt.code, w.Code)
			}
		})
	}
}

func TestHandlerFailedRunBody(t *testing.T) {
	r, svc := newTestRouter(&stubPredictor{err: &predict.UnavailableError{URL: "x"}})
	w := do(t, r, "POST", "/simulations", 1, validRequest())

	var body struct {
		SimulationID string `json:"simulation_id"`
		Status       Status `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Status != Failed {
		t.Errorf("status = %s", body.Status)
	}
	stored, err := svc.Get(context.Background(), body.SimulationID, 1)
	if err != nil || stored.Status != Failed {
		t.Errorf("stored = %+v, %v", stored, err)
	}
}

func TestHandlerListEmpty(t *testing.T) {
	r, _ := newTestRouter(&stubPredictor{})
	w := do(t, r, "GET", "/simulations/public/search?q=x", 1, nil)
	if w.Code != http.StatusOK || bytes.TrimSpace(w.Body.Bytes())[0] != '[' {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}

func TestHandlerUnsavedRunIsServerError(t *testing.T) {
	repo := failingSaveRepo{memRepo: newMemRepo(), err: errors.New("db down")}
	svc := NewService(repo, nil, NewOrchestrator(&stubPredictor{err: &predict.UnavailableError{URL: "x"}}, nil), nil)
	h := &Handler{Service: svc}
	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/simulations").Subrouter())

	w := do(t, r, "POST", "/simulations", 1, validRequest())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusInternalServerError, w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "simulation_id") {
		t.Errorf("unsaved simulation id leaked: %s", w.Body.String())
	}
}

func TestSimulationJSONHasNoLikes(t *testing.T) {
	b, err := json.Marshal(New(1, validRequest()))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "likes") {
		t.Errorf("unexpected likes field: %s", b)
	}
}
