package boards

import (
	"encoding/json"
	"net/http"
	"strings"

	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/httpx"
	"taskboard-backend/internal/store"
)

type boardBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func ListBoardsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		boards, err := st.BoardsForUser(r.Context(), uid)
		if err != nil {
			httpx.StoreError(w, "boards", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, boards)
	}
}

func CreateBoardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body boardBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(body.Title)
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		b, err := st.CreateBoard(r.Context(), uid, title, strings.TrimSpace(body.Description))
		if err != nil {
			httpx.StoreError(w, "board", err)
			return
		}

		analytics.Track(r, st, uid, "board_created", map[string]any{
			"board_id": b.ID,
			"text_len": len(title) + len(b.Description),
		})

		httpx.WriteJSON(w, http.StatusCreated, b)
	}
}

func GetBoardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		_, role, ok := httpx.RequireRole(w, r, st, boardID, store.RoleMember)
		if !ok {
			return
		}

		b, err := st.Board(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "board", err)
			return
		}
		lists, err := st.Lists(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "lists", err)
			return
		}
		cards, err := st.Cards(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "cards", err)
			return
		}

		b.Role = role
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"board": b,
			"lists": lists,
			"cards": cards,
		})
	}
}

func UpdateBoardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, boardID, store.RoleAdmin); !ok {
			return
		}

		var body boardBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(body.Title)
		if title == "" {
			http.Error(w, "title is required", http.StatusBadRequest)
			return
		}

		b, err := st.UpdateBoard(r.Context(), boardID, title, strings.TrimSpace(body.Description))
		if err != nil {
			httpx.StoreError(w, "board", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, b)
	}
}

func DeleteBoardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, boardID, store.RoleOwner); !ok {
			return
		}

		if err := st.DeleteBoard(r.Context(), boardID); err != nil {
			httpx.StoreError(w, "board", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func MembersHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, boardID, store.RoleMember); !ok {
			return
		}

		members, err := st.Members(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "members", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, members)
	}
}

// RemoveMemberHandler lets admins remove members and anyone leave a board.
// The owner can never be removed.
func RemoveMemberHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		targetID, ok := httpx.IntParam(r, "user_id")
		if !ok {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}

		uid, role, ok := httpx.RequireRole(w, r, st, boardID, store.RoleMember)
		if !ok {
			return
		}

		targetRole, err := st.MemberRole(r.Context(), boardID, targetID)
		if err != nil {
			httpx.StoreError(w, "member", err)
			return
		}
		switch {
		case targetRole == store.RoleOwner:
			http.Error(w, "owner cannot be removed", http.StatusBadRequest)
			return
		case targetID != uid && !store.AtLeast(role, store.RoleAdmin):
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		case targetID != uid && targetRole == store.RoleAdmin && role != store.RoleOwner:
			http.Error(w, "only the owner can remove admins", http.StatusForbidden)
			return
		}

		if err := st.RemoveMember(r.Context(), boardID, targetID); err != nil {
			httpx.StoreError(w, "member", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
