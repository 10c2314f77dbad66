package lists

import (
	"encoding/json"
	"net/http"
	"strings"

	"taskboard-backend/internal/httpx"
	"taskboard-backend/internal/store"
)

func GetListsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, boardID, store.RoleMember); !ok {
			return
		}

		lists, err := st.Lists(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "lists", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, lists)
	}
}

func CreateListHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BoardID int    `json:"board_id"`
			Title   string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(body.Title)
		if body.BoardID == 0 || title == "" {
			http.Error(w, "board_id and title required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, body.BoardID, store.RoleMember); !ok {
			return
		}

		l, err := st.CreateList(r.Context(), body.BoardID, title)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, l)
	}
}

// UpdateListHandler renames and/or repositions a list. Omitted fields keep
// their current value.
func UpdateListHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, ok := httpx.IntParam(r, "list_id")
		if !ok {
			http.Error(w, "list_id required", http.StatusBadRequest)
			return
		}

		var body struct {
			Title    *string `json:"title"`
			Position *int    `json:"position"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := st.List(r.Context(), listID)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, l.BoardID, store.RoleMember); !ok {
			return
		}

		if body.Title != nil {
			l.Title = strings.TrimSpace(*body.Title)
			if l.Title == "" {
				http.Error(w, "title cannot be empty", http.StatusBadRequest)
				return
			}
		}
		if body.Position != nil {
			if *body.Position < 0 {
				http.Error(w, "invalid position", http.StatusBadRequest)
				return
			}
			l.Position = *body.Position
		}

		l, err = st.UpdateList(r.Context(), listID, l.Title, l.Position)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, l)
	}
}

// DeleteListHandler removes a list and its cards. Admins only.
func DeleteListHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listID, ok := httpx.IntParam(r, "list_id")
		if !ok {
			http.Error(w, "list_id required", http.StatusBadRequest)
			return
		}

		l, err := st.List(r.Context(), listID)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, l.BoardID, store.RoleAdmin); !ok {
			return
		}

		if err := st.DeleteList(r.Context(), listID); err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
