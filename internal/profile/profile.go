package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"SimStruct/internal/auth"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	ID        int       `json:"id" db:"id"`
	Login     string    `json:"login" db:"login"`
	Email     string    `json:"email,omitempty" db:"email"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Company   string    `json:"company" db:"company"`
	JobTitle  string    `json:"job_title" db:"job_title"`
	Bio       string    `json:"bio" db:"bio"`
	AvatarURL string    `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Public hides contact details from other users.
func (p Profile) Public() Profile {
	p.Email = ""
	p.Phone = ""
	return p
}

// Store is the user table as seen by the profile endpoints. Methods taking
// an id return ErrNotFound when the user does not exist.
type Store interface {
	GetProfile(ctx context.Context, id int) (Profile, error)
	UpdateProfile(ctx context.Context, id int, p Profile) error
	UpdateAvatar(ctx context.Context, id int, url string) error
	PasswordHash(ctx context.Context, id int) (string, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
	DeleteUser(ctx context.Context, id int) error
}

type ProfileHandler struct {
	Repo Store
	Log  *slog.Logger
	// UploadDir receives avatar files, served back under /uploads/.
	UploadDir string
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Company  *string `json:"company"`
	JobTitle *string `json:"job_title"`
	Bio      *string `json:"bio"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type field struct {
	name     string
	value    *string
	min, max int
	dst      *string
}

func (req UpdateProfileRequest) fields(p *Profile) []field {
	return []field{
		{"name", req.Name, 2, 100, &p.Name},
		{"phone", req.Phone, 0, 20, &p.Phone},
		{"company", req.Company, 0, 100, &p.Company},
		{"job_title", req.JobTitle, 0, 100, &p.JobTitle},
		{"bio", req.Bio, 0, 500, &p.Bio},
	}
}

// Apply validates the present fields and copies them onto p. p is left
// untouched when any field is invalid.
func (req UpdateProfileRequest) Apply(p *Profile) error {
	next := *p
	for _, f := range req.fields(&next) {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if n := utf8.RuneCountInString(v); n < f.min || n > f.max {
			return fmt.Errorf("%s must be between %d and %d characters", f.name, f.min, f.max)
		}
		*f.dst = v
	}
	*p = next
	return nil
}

const MaxUploadSize = 10 << 20 // 10MB

var avatarExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profile", h.GetProfile).Methods("GET")
	r.HandleFunc("/profile", h.UpdateProfile).Methods("PATCH", "PUT")
	r.HandleFunc("/profile", h.DeleteAccount).Methods("DELETE")
	r.HandleFunc("/profile/password", h.ChangePassword).Methods("PUT")
	r.HandleFunc("/profile/{id:[0-9]+}", h.GetProfile).Methods("GET")
	r.HandleFunc("/upload-avatar", h.UploadAvatar).Methods("POST")
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		http.Error(w, "File too big", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !avatarExts[ext] {
		http.Error(w, "Unsupported image type", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		h.logger().Error("create upload dir", "dir", h.UploadDir, "error", err)
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	fileName := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(h.UploadDir, fileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		h.logger().Error("create avatar file", "error", err)
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	if _, err := io.Copy(f, file); err != nil {
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}

	imagePath := "/uploads/" + fileName
	if err := h.Repo.UpdateAvatar(r.Context(), userID, imagePath); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"avatar_url": imagePath})
}

// GetProfile returns the caller's profile, or the public view of another
// user's profile when the route carries an id.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	if idStr, ok := mux.Vars(r)["id"]; ok && idStr != "" {
		targetID, err := strconv.Atoi(idStr)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}
		prof, err := h.Repo.GetProfile(r.Context(), targetID)
		if err != nil {
			h.fail(w, err)
			return
		}
		if targetID != userID {
			prof = prof.Public()
		}
		writeJSON(w, http.StatusOK, prof)
		return
	}

	prof, err := h.Repo.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	prof, err := h.Repo.GetProfile(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := req.Apply(&prof); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Repo.UpdateProfile(r.Context(), userID, prof); err != nil {
		h.fail(w, err)
		return
	}
	h.logger().Info("profile updated", "user", userID)
	writeJSON(w, http.StatusOK, prof)
}

func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		http.Error(w, "Current and new password required", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < auth.MinPasswordLength {
		http.Error(w, "Password too short", http.StatusBadRequest)
		return
	}

	storedHash, err := h.Repo.PasswordHash(r.Context(), userID)
	if err != nil {
		h.fail(w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.CurrentPassword)) != nil {
		http.Error(w, "Current password is incorrect", http.StatusBadRequest)
		return
	}

	hashed, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}
	if err := h.Repo.UpdatePassword(r.Context(), userID, hashed); err != nil {
		h.fail(w, err)
		return
	}
	h.logger().Info("password changed", "user", userID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount removes the caller together with their simulations and
// notifications, and ends the session.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	if err := h.Repo.DeleteUser(r.Context(), userID); err != nil {
		h.fail(w, err)
		return
	}
	h.logger().Info("account deleted", "user", userID)
	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) user(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, ok := auth.UserIDFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	}
	return id, ok
}

func (h *ProfileHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}
	h.logger().Error("profile request failed", "error", err)
	http.Error(w, "DB error", http.StatusInternalServerError)
}

func (h *ProfileHandler) logger() *slog.Logger {
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
