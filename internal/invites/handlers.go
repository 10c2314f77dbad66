package invites

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/httpx"
	"taskboard-backend/internal/store"
)

// CreateInviteHandler lets owners and admins invite someone by email.
// Only owners can invite admins.
func CreateInviteHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BoardID int    `json:"board_id"`
			Email   string `json:"email"`
			Role    string `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		email := strings.ToLower(strings.TrimSpace(body.Email))
		if body.BoardID == 0 || !strings.Contains(email, "@") {
			http.Error(w, "board_id and email required", http.StatusBadRequest)
			return
		}
		if body.Role == "" {
			body.Role = store.RoleMember
		}
		if !store.ValidInviteRole(body.Role) {
			http.Error(w, "invalid role", http.StatusBadRequest)
			return
		}

		uid, role, ok := httpx.RequireRole(w, r, st, body.BoardID, store.RoleAdmin)
		if !ok {
			return
		}
		if body.Role == store.RoleAdmin && role != store.RoleOwner {
			http.Error(w, "only the owner can invite admins", http.StatusForbidden)
			return
		}

		if u, err := st.UserByEmail(r.Context(), email); err == nil {
			if _, err := st.MemberRole(r.Context(), body.BoardID, u.ID); err == nil {
				http.Error(w, "user is already a member", http.StatusConflict)
				return
			}
		}

		inv, err := st.CreateInvite(r.Context(), store.Invite{
			BoardID:   body.BoardID,
			Email:     email,
			Role:      body.Role,
			InvitedBy: uid,
		})
		if err != nil {
			httpx.StoreError(w, "invite", err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, inv)
	}
}

// MyInvitesHandler lists pending invites addressed to the caller's email.
func MyInvitesHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		u, err := st.UserByID(r.Context(), uid)
		if err != nil {
			httpx.StoreError(w, "user", err)
			return
		}

		invites, err := st.PendingInvites(r.Context(), u.Email)
		if err != nil {
			httpx.StoreError(w, "invites", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, invites)
	}
}

// pendingForCaller loads an invite and checks it is pending and addressed
// to the caller. It writes the error response itself.
func pendingForCaller(w http.ResponseWriter, r *http.Request, st store.Store) (store.Invite, int, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return store.Invite{}, 0, false
	}
	inviteID, ok := httpx.IntParam(r, "invite_id")
	if !ok {
		http.Error(w, "invite_id required", http.StatusBadRequest)
		return store.Invite{}, 0, false
	}

	u, err := st.UserByID(r.Context(), uid)
	if err != nil {
		httpx.StoreError(w, "user", err)
		return store.Invite{}, 0, false
	}
	inv, err := st.Invite(r.Context(), inviteID)
	if err != nil || inv.Email != strings.ToLower(u.Email) {
		http.Error(w, "invite not found", http.StatusNotFound)
		return store.Invite{}, 0, false
	}
	if inv.Status != store.InvitePending {
		http.Error(w, "invite is already "+inv.Status, http.StatusConflict)
		return store.Invite{}, 0, false
	}
	return inv, uid, true
}

func AcceptInviteHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, uid, ok := pendingForCaller(w, r, st)
		if !ok {
			return
		}

		err := st.AddMember(r.Context(), inv.BoardID, uid, inv.Role)
		if err != nil && !errors.Is(err, store.ErrConflict) {
			httpx.StoreError(w, "member", err)
			return
		}
		if err := st.SetInviteStatus(r.Context(), inv.ID, store.InviteAccepted); err != nil {
			httpx.StoreError(w, "invite", err)
			return
		}

		analytics.Track(r, st, uid, "invite_accepted", map[string]any{
			"board_id":  inv.BoardID,
			"invite_id": inv.ID,
			"role":      inv.Role,
		})

		b, err := st.Board(r.Context(), inv.BoardID)
		if err != nil {
			httpx.StoreError(w, "board", err)
			return
		}
		role, _ := st.MemberRole(r.Context(), inv.BoardID, uid)
		b.Role = role
		httpx.WriteJSON(w, http.StatusOK, b)
	}
}

func DeclineInviteHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inv, _, ok := pendingForCaller(w, r, st)
		if !ok {
			return
		}

		if err := st.SetInviteStatus(r.Context(), inv.ID, store.InviteDeclined); err != nil {
			httpx.StoreError(w, "invite", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
