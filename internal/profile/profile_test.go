package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"SimStruct/internal/auth"

	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

type memStore struct {
	mu     sync.Mutex
	users  map[int]Profile
	hashes map[int]string
}

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &memStore{
		users: map[int]Profile{
			1: {ID: 1, Login: "alice", Email: "alice@example.com", Phone: "+100", Name: "Alice"},
			2: {ID: 2, Login: "bob", Email: "bob@example.com", Phone: "+200", Company: "Acme"},
		},
		hashes: map[int]string{1: string(hash), 2: string(hash)},
	}
}

func (m *memStore) GetProfile(ctx context.Context, id int) (Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.users[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *memStore) UpdateProfile(ctx context.Context, id int, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	cur.Name, cur.Phone, cur.Company, cur.JobTitle, cur.Bio = p.Name, p.Phone, p.Company, p.JobTitle, p.Bio
	m.users[id] = cur
	return nil
}

func (m *memStore) UpdateAvatar(ctx context.Context, id int, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	cur.AvatarURL = url
	m.users[id] = cur
	return nil
}

func (m *memStore) PasswordHash(ctx context.Context, id int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[id]
	if !ok {
		return "", ErrNotFound
	}
	return h, nil
}

func (m *memStore) UpdatePassword(ctx context.Context, id int, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.hashes[id]; !ok {
		return ErrNotFound
	}
	m.hashes[id] = hash
	return nil
}

func (m *memStore) DeleteUser(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	delete(m.hashes, id)
	return nil
}

func newTestRouter(t *testing.T) (*mux.Router, *memStore, *ProfileHandler) {
	store := newMemStore(t)
	h := &ProfileHandler{Repo: store, UploadDir: t.TempDir()}
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r, store, h
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

func decode(t *testing.T, w *httptest.ResponseRecorder) Profile {
	t.Helper()
	var p Profile
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func sptr(s string) *string { return &s }

func TestGetProfile(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(t, r, "GET", "/profile", 1, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if p := decode(t, w); p.Login != "alice" || p.Email != "alice@example.com" {
		t.Errorf("own profile = %+v", p)
	}

	w = do(t, r, "GET", "/profile/2", 1, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, w.Code)
	}
	if p := decode(t, w); p.Login != "bob" || p.Email != "" || p.Phone != "" || p.Company != "Acme" {
		t.Errorf("public profile = %+v", p)
	}

	if w := do(t, r, "GET", "/profile/99", 1, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if w := do(t, r, "GET", "/profile", 0, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateProfileRequest
		code int
		want Profile
	}{
		{
			name: "partial",
			req:  UpdateProfileRequest{Company: sptr("  SimCo "), Bio: sptr("beams")},
			code: http.StatusOK,
			want: Profile{Name: "Alice", Phone: "+100", Company: "SimCo", Bio: "beams"},
		},
		{
			name: "clear phone",
			req:  UpdateProfileRequest{Phone: sptr("")},
			code: http.StatusOK,
			want: Profile{Name: "Alice"},
		},
		{
			name: "name too short",
			req:  UpdateProfileRequest{Name: sptr("A"), Company: sptr("ignored")},
			code: http.StatusBadRequest,
			want: Profile{Name: "Alice", Phone: "+100"},
		},
		{
			name: "bio too long",
			req:  UpdateProfileRequest{Bio: sptr(strings.Repeat("x", 501))},
			code: http.StatusBadRequest,
			want: Profile{Name: "Alice", Phone: "+100"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := newTestRouter(t)
			w := do(t, r, "PUT", "/profile", 1, tt.req)
			if w.Code != tt.code {
				t.Fatalf("Expected status %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			got := store.users[1]
			if got.Name != tt.want.Name || got.Phone != tt.want.Phone || got.Company != tt.want.Company || got.Bio != tt.want.Bio {
				t.Errorf("stored = %+v", got)
			}
			if got.Login != "alice" || got.Email != "alice@example.com" {
				t.Errorf("identity changed: %+v", got)
			}
		})
	}
}

func TestChangePassword(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		code    int
	}{
		{"ok", "secret1", "better-secret", http.StatusNoContent},
		{"wrong current", "nope", "better-secret", http.StatusBadRequest},
		{"too short", "secret1", "abc", http.StatusBadRequest},
		{"missing", "", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store, _ := newTestRouter(t)
			before := store.hashes[1]
			w := do(t, r, "PUT", "/profile/password", 1, ChangePasswordRequest{CurrentPassword: tt.current, NewPassword: tt.next})
			if w.Code != tt.code {
				t.Fatalf("Expected status %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
			after := store.hashes[1]
			if tt.code != http.StatusNoContent {
				if after != before {
					t.Error("password changed on a rejected request")
				}
				return
			}
			if bcrypt.CompareHashAndPassword([]byte(after), []byte(tt.next)) != nil {
				t.Error("new password does not match stored hash")
			}
		})
	}
}

func TestDeleteAccount(t *testing.T) {
	r, store, _ := newTestRouter(t)

	w := do(t, r, "DELETE", "/profile", 2, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if _, ok := store.users[2]; ok {
		t.Error("user not deleted")
	}
	if _, ok := store.users[1]; !ok {
		t.Error("other user deleted")
	}
	if c := w.Result().Cookies(); len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("session cookie not cleared: %+v", c)
	}

	if w := do(t, r, "DELETE", "/profile", 2, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete: Expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func upload(t *testing.T, r http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest("POST", "/upload-avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(auth.WithUserID(req.Context(), 1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadAvatar(t *testing.T) {
	r, store, h := newTestRouter(t)

	w := upload(t, r, "me.PNG", []byte("png-bytes"))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	url := store.users[1].AvatarURL
	if !strings.HasPrefix(url, "/uploads/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("avatar url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(h.UploadDir, strings.TrimPrefix(url, "/uploads/")))
	if err != nil || string(b) != "png-bytes" {
		t.Errorf("stored file = %q, %v", b, err)
	}

	if w := upload(t, r, "script.sh", []byte("#!/bin/sh")); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}
