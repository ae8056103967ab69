package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/identity"
)

// ActorKey is the context key under which the attributed identity of
// the caller is stored: the decimal account ID for signed-in members,
// or the device's anon_ identifier for everyone else.
const ActorKey = "actor_id"

// AnonymousHeader carries the device-minted identifier for callers
// without an account.
const AnonymousHeader = "X-Anonymous-ID"

// AttributedIdentity resolves who an RSVP should be recorded against.
// A valid Bearer token wins; without one the request must carry a
// well-formed X-Anonymous-ID header.  Requests with neither (or with a
// malformed anonymous ID) are rejected so RSVP rows can never be
// attributed to garbage.
func AttributedIdentity(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				raw := strings.TrimPrefix(auth, "Bearer ")
				tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, echo.ErrUnauthorized
					}
					return []byte(secret), nil
				})
				if err != nil || !tok.Valid {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
				claims, ok := tok.Claims.(jwt.MapClaims)
				if !ok {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
				}
				sub, ok := claims["sub"].(float64)
				if !ok || sub < 0 {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
				}
				c.Set("user_id", uint64(sub))
				if role, ok := claims["role"].(string); ok {
					c.Set("role", role)
				}
				c.Set(ActorKey, strconv.FormatUint(uint64(sub), 10))
				return next(c)
			}

			anon := c.Request().Header.Get(AnonymousHeader)
			if !identity.Valid(anon) {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "authentication or a valid " + AnonymousHeader + " header required",
				})
			}
			c.Set(ActorKey, anon)
			return next(c)
		}
	}
}

// Actor returns the attributed identity stored by AttributedIdentity,
// or "" when the middleware did not run.
func Actor(c echo.Context) string {
	if s, ok := c.Get(ActorKey).(string); ok {
		return s
	}
	return ""
}
