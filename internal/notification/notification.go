// Package notification serves the notifications written for a user when
// their simulations finish. Every operation is scoped to the caller.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"SimStruct/internal/auth"

	"github.com/gorilla/mux"
)

var ErrNotFound = errors.New("notification not found")

type Notification struct {
	ID          string     `json:"id" db:"id"`
	Kind        string     `json:"type" db:"kind"`
	Title       string     `json:"title" db:"title"`
	Message     string     `json:"message" db:"message"`
	RelatedID   string     `json:"related_id" db:"related_id"`
	RelatedType string     `json:"related_type" db:"related_type"`
	ActionURL   string     `json:"action_url" db:"action_url"`
	IsRead      bool       `json:"is_read" db:"is_read"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
}

type Counts struct {
	Unread int `json:"unread_count" db:"unread_count"`
	Total  int `json:"total_count" db:"total_count"`
}

// Store reads and updates one user's notifications. Methods taking an id
// return ErrNotFound when it does not exist or belongs to someone else.
type Store interface {
	List(ctx context.Context, userID, limit, offset int) ([]Notification, error)
	Unread(ctx context.Context, userID int) ([]Notification, error)
	Count(ctx context.Context, userID int) (Counts, error)
	MarkRead(ctx context.Context, id string, userID int) (Notification, error)
	MarkAllRead(ctx context.Context, userID int) (int, error)
	Delete(ctx context.Context, id string, userID int) error
	DeleteAll(ctx context.Context, userID int) (int, error)
}

// MaxPageSize caps the limit query parameter of List.
const MaxPageSize = 100

type Handler struct {
	Store Store
	Log   *slog.Logger
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.List).Methods("GET")
	r.HandleFunc("", h.DeleteAll).Methods("DELETE")
	r.HandleFunc("/unread", h.Unread).Methods("GET")
	r.HandleFunc("/count", h.Count).Methods("GET")
	r.HandleFunc("/read-all", h.MarkAllRead).Methods("PUT")
	r.HandleFunc("/{id}/read", h.MarkRead).Methods("PUT")
	r.HandleFunc("/{id}", h.Delete).Methods("DELETE")
}

// List returns the caller's notifications, newest first. limit and offset
// page through them; without limit everything is returned.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 || limit > MaxPageSize {
		http.Error(w, "Invalid limit", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		http.Error(w, "Invalid offset", http.StatusBadRequest)
		return
	}
	list, err := h.Store.List(r.Context(), userID, limit, offset)
	h.writeList(w, list, err)
}

func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	list, err := h.Store.Unread(r.Context(), userID)
	h.writeList(w, list, err)
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	c, err := h.Store.Count(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	n, err := h.Store.MarkRead(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	n, err := h.Store.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	n, err := h.Store.DeleteAll(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (h *Handler) writeList(w http.ResponseWriter, list []Notification, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	if list == nil {
		list = []Notification{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.logger().Error("notification request failed", "error", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
