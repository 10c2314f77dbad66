package cards

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"taskboard-backend/internal/ai"
	"taskboard-backend/internal/analysis"
	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/httpx"
	"taskboard-backend/internal/logger"
	"taskboard-backend/internal/store"
)

type recommendationResponse struct {
	analysis.Result
	AIInsights *ai.Insights `json:"aiInsights"`
}

func toAnalysisCard(c store.Card) analysis.Card {
	return analysis.Card{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		ListID:      c.ListID,
		BoardID:     c.BoardID,
		DueDate:     c.DueDate,
	}
}

func toAnalysisLists(in []store.List) []analysis.List {
	out := make([]analysis.List, len(in))
	for i, l := range in {
		out[i] = analysis.List{ID: l.ID, Title: l.Title, BoardID: l.BoardID}
	}
	return out
}

// RecommendationsHandler returns the rule-based analysis of one card, plus
// model insights when the adapter is enabled. A failed model call only
// nulls aiInsights and sets X-AI-Error.
func RecommendationsHandler(st store.Store, analyzer *analysis.Analyzer, adapter *ai.Adapter) http.HandlerFunc {
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
		uid, _, ok := httpx.RequireRole(w, r, st, c.BoardID, store.RoleMember)
		if !ok {
			return
		}

		var (
			board      store.Board
			storeLists []store.List
			storeCards []store.Card
		)
		g, gctx := errgroup.WithContext(r.Context())
		g.Go(func() (err error) {
			board, err = st.Board(gctx, c.BoardID)
			return err
		})
		g.Go(func() (err error) {
			if storeLists, err = st.Lists(gctx, c.BoardID); err != nil {
				return fmt.Errorf("lists: %w", err)
			}
			return nil
		})
		g.Go(func() (err error) {
			if storeCards, err = st.Cards(gctx, c.BoardID); err != nil {
				return fmt.Errorf("cards: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			httpx.StoreError(w, "board", err)
			return
		}

		card := toAnalysisCard(c)
		lists := toAnalysisLists(storeLists)
		cards := make([]analysis.Card, len(storeCards))
		for i, sc := range storeCards {
			cards[i] = toAnalysisCard(sc)
		}

		enriched := make(chan ai.Enrichment, 1)
		go func() {
			enriched <- adapter.Enrich(r.Context(), ai.ContextFor(card, board.Title, len(cards), lists, time.Now()))
		}()

		resp := recommendationResponse{Result: analyzer.AnalyzeCard(card, cards, lists)}

		enr := <-enriched
		if enr.Err != nil {
			logger.Log.WithField("card_id", cardID).Warnf("AI enrichment failed: %v", enr.Err)
			w.Header().Set("X-AI-Error", "1")
		}
		resp.AIInsights = enr.Insights

		analytics.Track(r, st, uid, "recommendations_requested", map[string]any{
			"board_id":      c.BoardID,
			"card_id":       c.ID,
			"due_dates":     len(resp.SuggestedDueDates),
			"list_movement": resp.SuggestedListMovement != nil,
			"related_cards": len(resp.RelatedCards),
			"smart_tips":    len(resp.SmartTips) > 0,
			"ai_enabled":    adapter.Enabled(),
			"ai_ok":         enr.OK(),
		})

		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
