package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/store"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func writeToken(w http.ResponseWriter, secret []byte, u store.User) {
	token, err := GenerateToken(secret, u.ID)
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_id": u.ID,
		"email":   u.Email,
		"token":   token,
	})
}

func RegisterHandler(st store.Store, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		body.Email = strings.TrimSpace(body.Email)
		if body.Email == "" || body.Password == "" {
			http.Error(w, "email & password required", http.StatusBadRequest)
			return
		}
		if len(body.Password) < 8 {
			http.Error(w, "password must be at least 8 characters", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash error", http.StatusInternalServerError)
			return
		}

		u, err := st.CreateUser(r.Context(), body.Email, string(hash))
		if errors.Is(err, store.ErrConflict) {
			http.Error(w, "email already registered", http.StatusConflict)
			return
		}
		if err != nil {
			logger.Log.Errorf("register: %v", err)
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		writeToken(w, secret, u)
	}
}

func LoginHandler(st store.Store, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentials
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := st.UserByEmail(r.Context(), strings.TrimSpace(body.Email))
		if err != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(body.Password)) != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}

		writeToken(w, secret, u)
	}
}

func MeHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := st.UserByID(r.Context(), uid)
		if err != nil {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": u.ID,
			"email":   u.Email,
		})
	}
}

// LogoutHandler exists for client symmetry: tokens are stateless and the
// client simply drops its copy.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
