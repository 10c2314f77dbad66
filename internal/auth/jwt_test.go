package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-backend/internal/analytics"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateToken(secret, 42)
	require.NoError(t, err)

	uid, err := ParseToken(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)

	_, err = ParseToken([]byte("other"), tok)
	assert.Error(t, err)
}

func TestParseTokenRejects(t *testing.T) {
	secret := []byte("s3cret")

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	s, err := expired.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err = noUser.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"user_id": 1})
	s, err = hs512.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseToken(secret, s)
	assert.Error(t, err)
}

func TestMiddlewareSetsUser(t *testing.T) {
	secret := []byte("s3cret")
	tok, err := GenerateToken(secret, 7)
	require.NoError(t, err)

	var gotAuth, gotAnalytics int
	h := New(secret).Wrap(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, _ = UserIDFromContext(r.Context())
		gotAnalytics, _ = analytics.UserIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotAuth)
	assert.Equal(t, 7, gotAnalytics)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
