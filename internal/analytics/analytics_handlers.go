package analytics

import (
	"encoding/json"
	"net/http"
)

// Events the client is allowed to report directly.
var clientEvents = map[string]bool{
	"app_opened":               true,
	"board_viewed":             true,
	"recommendation_applied":   true,
	"recommendation_dismissed": true,
}

// ClientEventHandler stores UI-side events like "the user applied a
// suggested due date".
func ClientEventHandler(sink Sink) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Event      string         `json:"event"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if !clientEvents[body.Event] {
			http.Error(w, "unknown event", http.StatusBadRequest)
			return
		}
		if body.Properties == nil {
			body.Properties = map[string]any{}
		}

		Track(r, sink, uid, body.Event, body.Properties)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
