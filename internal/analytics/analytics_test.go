package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-backend/internal/store"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Platform", " iOS ")
	r.Header.Set("X-Session-Id", "s1")
	r.Header.Set("X-Device-Locale", "de-DE")

	env := FromRequest(r)
	assert.Equal(t, "ios", env.Platform)
	assert.Equal(t, "s1", env.SessionID)
	assert.Equal(t, "de-DE", env.DeviceLocale)

	r.Header.Set("X-Platform", "toaster")
	assert.Equal(t, "unknown", FromRequest(r).Platform)
}

func TestLog(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	require.NoError(t, Log(ctx, mem, Envelope{}, "board_viewed", nil, ""))
	assert.Empty(t, mem.Events(), "events without a user are skipped")

	ctx = WithUserID(ctx, 3)
	require.NoError(t, Log(ctx, mem, Envelope{Platform: "web"}, "board_viewed", map[string]any{"board_id": 1}, "k1"))
	require.NoError(t, Log(ctx, mem, Envelope{Platform: "web"}, "board_viewed", map[string]any{"board_id": 1}, "k1"))

	events := mem.Events()
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].UserID)
	assert.Equal(t, "web", events[0].Platform)

	var props map[string]any
	require.NoError(t, json.Unmarshal(events[0].Properties, &props))
	assert.EqualValues(t, 1, props["board_id"])
}
