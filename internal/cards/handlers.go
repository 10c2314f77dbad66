package cards

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/httpx"
	"taskboard-backend/internal/store"
)

func cleanLabels(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func GetCardsHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		boardID, ok := httpx.IntParam(r, "board_id")
		if !ok {
			http.Error(w, "board_id required", http.StatusBadRequest)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, boardID, store.RoleMember); !ok {
			return
		}

		cards, err := st.Cards(r.Context(), boardID)
		if err != nil {
			httpx.StoreError(w, "cards", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, cards)
	}
}

func CreateCardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ListID      int        `json:"list_id"`
			Title       string     `json:"title"`
			Description string     `json:"description"`
			DueDate     *time.Time `json:"due_date"`
			Labels      []string   `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		title := strings.TrimSpace(body.Title)
		if body.ListID == 0 || title == "" {
			http.Error(w, "list_id and title required", http.StatusBadRequest)
			return
		}

		l, err := st.List(r.Context(), body.ListID)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		uid, _, ok := httpx.RequireRole(w, r, st, l.BoardID, store.RoleMember)
		if !ok {
			return
		}

		c, err := st.CreateCard(r.Context(), store.Card{
			BoardID:     l.BoardID,
			ListID:      l.ID,
			Title:       title,
			Description: strings.TrimSpace(body.Description),
			DueDate:     body.DueDate,
			Labels:      cleanLabels(body.Labels),
			CreatedBy:   uid,
		})
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}

		analytics.Track(r, st, uid, "card_created", map[string]any{
			"board_id":     c.BoardID,
			"card_id":      c.ID,
			"text_len":     len(c.Title) + len(c.Description),
			"has_deadline": c.DueDate != nil,
		})

		httpx.WriteJSON(w, http.StatusCreated, c)
	}
}

func GetCardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, ok := httpx.IntParam(r, "card_id")
		if !ok {
			http.Error(w, "card_id required", http.StatusBadRequest)
			return
		}

		c, err := st.Card(r.Context(), cardID)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, c.BoardID, store.RoleMember); !ok {
			return
		}
		httpx.WriteJSON(w, http.StatusOK, c)
	}
}

// UpdateCardHandler patches text fields, labels and the due date. Omitted
// fields are left alone; clear_due_date removes the due date.
func UpdateCardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, ok := httpx.IntParam(r, "card_id")
		if !ok {
			http.Error(w, "card_id required", http.StatusBadRequest)
			return
		}

		var body struct {
			Title        *string    `json:"title"`
			Description  *string    `json:"description"`
			DueDate      *time.Time `json:"due_date"`
			ClearDueDate bool       `json:"clear_due_date"`
			Labels       []string   `json:"labels"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := st.Card(r.Context(), cardID)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, c.BoardID, store.RoleMember); !ok {
			return
		}

		if body.Title != nil {
			c.Title = strings.TrimSpace(*body.Title)
			if c.Title == "" {
				http.Error(w, "title cannot be empty", http.StatusBadRequest)
				return
			}
		}
		if body.Description != nil {
			c.Description = strings.TrimSpace(*body.Description)
		}
		switch {
		case body.ClearDueDate:
			c.DueDate = nil
		case body.DueDate != nil:
			c.DueDate = body.DueDate
		}
		if body.Labels != nil {
			c.Labels = cleanLabels(body.Labels)
		}

		c, err = st.UpdateCard(r.Context(), c)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, c)
	}
}

// MoveCardHandler moves a card to another list of the same board.
func MoveCardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, ok := httpx.IntParam(r, "card_id")
		if !ok {
			http.Error(w, "card_id required", http.StatusBadRequest)
			return
		}

		var body struct {
			ListID   int    `json:"list_id"`
			Position int    `json:"position"`
			Source   string `json:"source"` // manual|suggestion
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.ListID == 0 || body.Position < 0 {
			http.Error(w, "list_id required", http.StatusBadRequest)
			return
		}

		c, err := st.Card(r.Context(), cardID)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		uid, _, ok := httpx.RequireRole(w, r, st, c.BoardID, store.RoleMember)
		if !ok {
			return
		}

		target, err := st.List(r.Context(), body.ListID)
		if err != nil {
			httpx.StoreError(w, "list", err)
			return
		}
		if target.BoardID != c.BoardID {
			http.Error(w, "list belongs to another board", http.StatusBadRequest)
			return
		}

		fromList := c.ListID
		c, err = st.MoveCard(r.Context(), cardID, target.ID, body.Position)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}

		if fromList != c.ListID {
			source := body.Source
			if source == "" {
				source = "manual"
			}
			analytics.Track(r, st, uid, "card_moved", map[string]any{
				"board_id":  c.BoardID,
				"card_id":   c.ID,
				"from_list": fromList,
				"to_list":   c.ListID,
				"source":    source,
			})
		}

		httpx.WriteJSON(w, http.StatusOK, c)
	}
}

func DeleteCardHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cardID, ok := httpx.IntParam(r, "card_id")
		if !ok {
			http.Error(w, "card_id required", http.StatusBadRequest)
			return
		}

		c, err := st.Card(r.Context(), cardID)
		if err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		if _, _, ok := httpx.RequireRole(w, r, st, c.BoardID, store.RoleMember); !ok {
			return
		}

		if err := st.DeleteCard(r.Context(), cardID); err != nil {
			httpx.StoreError(w, "card", err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
