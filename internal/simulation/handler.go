package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"SimStruct/internal/auth"
	"SimStruct/internal/calc/report"
	"SimStruct/internal/predict"

	"github.com/gorilla/mux"
)

type Handler struct {
	Service *Service
	Log     *slog.Logger
}

// RegisterRoutes mounts the simulation endpoints on r. r must already be
// behind auth.AuthMiddleware.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.Create).Methods("POST")
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("/recent", h.Recent).Methods("GET")
	r.HandleFunc("/favorites", h.Favorites).Methods("GET")
	r.HandleFunc("/public", h.Public).Methods("GET")
	r.HandleFunc("/public/search", h.SearchPublic).Methods("GET")
	r.HandleFunc("/search", h.Search).Methods("GET")
	r.HandleFunc("/{id}", h.Get).Methods("GET")
	r.HandleFunc("/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
	r.HandleFunc("/{id}/favorite", h.ToggleFavorite).Methods("POST")
	r.HandleFunc("/{id}/public", h.TogglePublic).Methods("POST")
	r.HandleFunc("/{id}/report", h.Report).Methods("GET")
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sim, err := h.Service.Create(r.Context(), userID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sim)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	sim, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], userID, req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	sim, err := h.Service.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(userID int) ([]Simulation, error) { return h.Service.List(r.Context(), userID) })
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(userID int) ([]Simulation, error) { return h.Service.Recent(r.Context(), userID) })
}

func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(userID int) ([]Simulation, error) { return h.Service.Favorites(r.Context(), userID) })
}

func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(int) ([]Simulation, error) { return h.Service.Public(r.Context()) })
}

func (h *Handler) SearchPublic(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	h.list(w, r, func(int) ([]Simulation, error) { return h.Service.SearchPublic(r.Context(), q) })
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	h.list(w, r, func(userID int) ([]Simulation, error) { return h.Service.Search(r.Context(), userID, q) })
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.ToggleFavorite)
}

func (h *Handler) TogglePublic(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Service.TogglePublic)
}

// Report renders the simulation and its latest result as a PDF.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	sim, err := h.Service.Get(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, ReportFor(sim)); err != nil {
		h.logger().Error("report generation failed", "simulation", sim.ID, "error", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"simulation-%s.pdf\"", sim.ID))
	w.Write(buf.Bytes())
}

// ReportFor lays out a simulation as report rows.
func ReportFor(sim *Simulation) report.Report {
	in := sim.Input
	rep := report.Report{
		Title:   sim.Name,
		Project: "Beam simulation " + sim.ID,
		Notes:   sim.Description,
		Rows: []report.Row{
			{Label: "Status", Value: string(sim.Status)},
			{Label: "Support", Value: string(in.Support)},
			{Label: "Material", Value: string(in.Material.Material)},
			{Label: "Length", Value: fmt.Sprintf("%g m", in.Geometry.LengthM)},
			{Label: "Section", Value: fmt.Sprintf("%g x %g m", in.Geometry.WidthM, in.Geometry.HeightM)},
			{Label: "Load", Value: fmt.Sprintf("%s %g N", in.Load.Kind, in.Load.Magnitude)},
		},
	}
	if res := sim.Result; res != nil {
		rep.Rows = append(rep.Rows,
			report.Row{Label: "Max deflection", Value: fmt.Sprintf("%.4g", res.MaxDeflection)},
			report.Row{Label: "Max stress", Value: fmt.Sprintf("%.4g", res.MaxStress)},
			report.Row{Label: "Max bending moment", Value: fmt.Sprintf("%.4g", res.MaxBendingMoment)},
			report.Row{Label: "Max shear force", Value: fmt.Sprintf("%.4g N", res.MaxShearForce)},
			report.Row{Label: "Safety factor", Value: fmt.Sprintf("%.2f", res.SafetyFactor)},
			report.Row{Label: "Safe", Value: fmt.Sprintf("%t", res.IsSafe)},
			report.Row{Label: "Weight", Value: fmt.Sprintf("%.1f kg", res.Weight)},
		)
		rep.Notes = strings.TrimSpace(rep.Notes + "\n\n" + res.Recommendations)
	}
	return rep
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, fetch func(userID int) ([]Simulation, error)) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	sims, err := fetch(userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if sims == nil {
		sims = []Simulation{}
	}
	writeJSON(w, http.StatusOK, sims)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request, flip func(ctx context.Context, id string, ownerID int) (*Simulation, error)) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	sim, err := flip(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

// fail maps a service error onto an HTTP response.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	var ae *AnalysisError
	var ve *ValidationError
	var pe *predict.ValidationError
	switch {
	case errors.Is(err, ErrNotSaved):
		h.logger().Error("simulation not persisted", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	case errors.As(err, &ae):
		writeJSON(w, predict.StatusCode(ae.Err), map[string]any{
			"error":         ae.Err.Error(),
			"simulation_id": ae.SimulationID,
			"status":        Failed,
		})
	case errors.As(err, &ve), errors.As(err, &pe):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger().Error("simulation request failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
