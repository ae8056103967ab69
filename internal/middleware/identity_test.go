package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seckc/community-api/internal/utils"
)

func runAttributed(t *testing.T, secret string, setup func(*http.Request)) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	setup(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor string
	mw := AttributedIdentity(secret)
	handler := mw(func(c echo.Context) error {
		actor = Actor(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, actor
}

func TestAttributedIdentityAcceptsAnonymousHeader(t *testing.T) {
	rec, actor := runAttributed(t, "sekrit", func(r *http.Request) {
		r.Header.Set(AnonymousHeader, "anon_1a2b3c4d5e6f7a8bkzzzz")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon_1a2b3c4d5e6f7a8bkzzzz", actor)
}

func TestAttributedIdentityRejectsMalformedAnonymousID(t *testing.T) {
	rec, _ := runAttributed(t, "sekrit", func(r *http.Request) {
		r.Header.Set(AnonymousHeader, "definitely-not-anon")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttributedIdentityRejectsMissingCredentials(t *testing.T) {
	rec, _ := runAttributed(t, "sekrit", func(r *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttributedIdentityPrefersBearerToken(t *testing.T) {
	at, err := utils.NewAccessToken("sekrit", 42, "MEMBER", 5)
	require.NoError(t, err)

	rec, actor := runAttributed(t, "sekrit", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+at.Token)
		// A stray anonymous header must lose to the account identity.
		r.Header.Set(AnonymousHeader, "anon_1a2b3c4d5e6f7a8bkzzzz")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", actor)
}

func TestAttributedIdentityRejectsBadBearer(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 42, "MEMBER", 5)
	require.NoError(t, err)

	rec, _ := runAttributed(t, "sekrit", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+at.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
