// Package httpx holds the response and access-check helpers shared by the
// board, list, card and invite handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/store"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StoreError maps store sentinels to status codes and logs the rest.
func StoreError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, what+" not found", http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		http.Error(w, what+" already exists", http.StatusConflict)
	default:
		logger.Log.Errorf("%s: %v", what, err)
		http.Error(w, "db error", http.StatusInternalServerError)
	}
}

// IntParam reads a positive integer path value or query parameter.
func IntParam(r *http.Request, name string) (int, bool) {
	v := r.PathValue(name)
	if v == "" {
		v = r.URL.Query().Get(name)
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// RequireRole checks that the caller is on the board with at least min.
// On failure it writes the response and returns ok=false. Non-members
// get 404 so board ids do not leak.
func RequireRole(w http.ResponseWriter, r *http.Request, st store.Store, boardID int, min string) (uid int, role string, ok bool) {
	uid, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return 0, "", false
	}

	role, err := st.MemberRole(r.Context(), boardID, uid)
	if err != nil {
		StoreError(w, "board", err)
		return 0, "", false
	}
	if !store.AtLeast(role, min) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return 0, "", false
	}
	return uid, role, true
}
