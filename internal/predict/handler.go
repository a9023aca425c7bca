package predict

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct {
	Client *Client
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"healthy": h.Client.IsHealthy(r.Context()),
		"url":     h.Client.BaseURL,
	})
}

func (h *Handler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.Client.ModelInfo(r.Context())))
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req BuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	p, err := h.Client.Predict(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), StatusCode(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"prediction":   p,
		"is_safe":      p.IsSafe(),
		"safety_level": p.SafetyLevel(),
	})
}

// StatusCode maps a prediction error to the HTTP status returned to callers.
func StatusCode(err error) int {
	var ve *ValidationError
	var se *ServiceError
	var ue *UnavailableError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &se):
		return http.StatusBadGateway
	case errors.As(err, &ue):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
