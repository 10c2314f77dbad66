package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"taskboard-backend/internal/store"
)

type CtxKey string

const (
	ctxUserIDKey CtxKey = "analytics_user_id"
)

// Sink receives analytics rows.
type Sink interface {
	LogEvent(ctx context.Context, e store.Event) error
}

// Envelope is what we store with every event.
type Envelope struct {
	UserID       int
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	uid, ok := ctx.Value(ctxUserIDKey).(int)
	return uid, ok
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
// Events with a repeated key are dropped by the sink.
func SourceEventKeyFromRequest(r *http.Request) string {
	if k := strings.TrimSpace(r.Header.Get("Idempotency-Key")); k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Log records one event. It never fails the caller: events without a user
// or with unencodable props are skipped, sink errors are returned only for
// callers that want to log them.
func Log(ctx context.Context, sink Sink, env Envelope, eventName string, props any, sourceEventKey string) error {
	if sink == nil || eventName == "" {
		return nil
	}

	userID := env.UserID
	if userID == 0 {
		uid, ok := UserIDFromContext(ctx)
		if !ok {
			return nil
		}
		userID = uid
	}

	b, err := json.Marshal(props)
	if err != nil {
		return nil
	}

	return sink.LogEvent(ctx, store.Event{
		Name:           eventName,
		Time:           time.Now().UTC(),
		UserID:         userID,
		SessionID:      env.SessionID,
		Platform:       env.Platform,
		AppVersion:     env.AppVersion,
		DeviceLocale:   env.DeviceLocale,
		SourceEventKey: sourceEventKey,
		Properties:     b,
	})
}

// Track is the handler-side shortcut: envelope from r, user from uid.
func Track(r *http.Request, sink Sink, uid int, eventName string, props map[string]any) {
	env := FromRequest(r)
	env.UserID = uid
	_ = Log(r.Context(), sink, env, eventName, props, SourceEventKeyFromRequest(r))
}
