package server

import (
	"net/http"

	"github.com/rs/cors"

	"taskboard-backend/internal/ai"
	"taskboard-backend/internal/analysis"
	"taskboard-backend/internal/analytics"
	"taskboard-backend/internal/auth"
	"taskboard-backend/internal/boards"
	"taskboard-backend/internal/cards"
	"taskboard-backend/internal/invites"
	"taskboard-backend/internal/lists"
	"taskboard-backend/internal/store"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store          store.Store
	Secret         []byte
	Analyzer       *analysis.Analyzer
	AI             *ai.Adapter
	AllowedOrigins []string
}

// New registers every route and wraps the mux with CORS.
func New(d Deps) http.Handler {
	if d.Analyzer == nil {
		d.Analyzer = analysis.NewAnalyzer()
	}
	st := d.Store
	protected := auth.New(d.Secret)
	p := protected.Wrap

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// ----- AUTH -----
	mux.HandleFunc("POST /auth/register", auth.RegisterHandler(st, d.Secret))
	mux.HandleFunc("POST /auth/login", auth.LoginHandler(st, d.Secret))
	mux.HandleFunc("POST /auth/logout", auth.LogoutHandler())
	mux.HandleFunc("GET /auth/me", p(auth.MeHandler(st)))

	// ----- BOARDS -----
	mux.HandleFunc("GET /boards", p(boards.ListBoardsHandler(st)))
	mux.HandleFunc("POST /boards", p(boards.CreateBoardHandler(st)))
	mux.HandleFunc("GET /boards/{board_id}", p(boards.GetBoardHandler(st)))
	mux.HandleFunc("PUT /boards/{board_id}", p(boards.UpdateBoardHandler(st)))
	mux.HandleFunc("DELETE /boards/{board_id}", p(boards.DeleteBoardHandler(st)))
	mux.HandleFunc("GET /boards/{board_id}/members", p(boards.MembersHandler(st)))
	mux.HandleFunc("DELETE /boards/{board_id}/members/{user_id}", p(boards.RemoveMemberHandler(st)))

	// ----- LISTS -----
	mux.HandleFunc("GET /boards/{board_id}/lists", p(lists.GetListsHandler(st)))
	mux.HandleFunc("POST /lists", p(lists.CreateListHandler(st)))
	mux.HandleFunc("PUT /lists/{list_id}", p(lists.UpdateListHandler(st)))
	mux.HandleFunc("DELETE /lists/{list_id}", p(lists.DeleteListHandler(st)))

	// ----- CARDS -----
	mux.HandleFunc("GET /boards/{board_id}/cards", p(cards.GetCardsHandler(st)))
	mux.HandleFunc("POST /cards", p(cards.CreateCardHandler(st)))
	mux.HandleFunc("GET /cards/{card_id}", p(cards.GetCardHandler(st)))
	mux.HandleFunc("PUT /cards/{card_id}", p(cards.UpdateCardHandler(st)))
	mux.HandleFunc("POST /cards/{card_id}/move", p(cards.MoveCardHandler(st)))
	mux.HandleFunc("DELETE /cards/{card_id}", p(cards.DeleteCardHandler(st)))
	recommend := p(cards.RecommendationsHandler(st, d.Analyzer, d.AI))
	mux.HandleFunc("GET /cards/recommendations", recommend)
	mux.HandleFunc("GET /cards/{card_id}/recommendations", recommend)

	// ----- INVITES -----
	mux.HandleFunc("POST /invites", p(invites.CreateInviteHandler(st)))
	mux.HandleFunc("GET /invites", p(invites.MyInvitesHandler(st)))
	mux.HandleFunc("POST /invites/{invite_id}/accept", p(invites.AcceptInviteHandler(st)))
	mux.HandleFunc("POST /invites/{invite_id}/decline", p(invites.DeclineInviteHandler(st)))

	// ----- ANALYTICS -----
	mux.HandleFunc("POST /analytics/events", p(analytics.ClientEventHandler(st)))

	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Idempotency-Key", "X-Platform", "X-App-Version", "X-Session-Id"},
		ExposedHeaders:   []string{"X-AI-Error", "X-Request-Id"},
		AllowCredentials: true,
	})

	return c.Handler(requestLog(mux))
}
