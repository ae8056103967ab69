// Package handler exposes the HTTP handlers for the community API:
// public browsing, RSVP mutations, member profile management and the
// admin surface.
package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// validDifficulties is the closed set accepted by the event and
// resource filters.
var validDifficulties = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
}

// validResourceTypes mirrors the resource_type column enumeration.
var validResourceTypes = map[string]bool{
	"course":   true,
	"tool":     true,
	"document": true,
	"video":    true,
	"website":  true,
	"book":     true,
}

const (
	defaultLimit = 25
	maxLimit     = 100
)

// clampLimit normalizes a requested page size into [1, maxLimit],
// substituting the default when the parameter is absent or garbage.
func clampLimit(raw string) int {
	if raw == "" {
		return defaultLimit
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return defaultLimit
		}
		n = n*10 + int(r-'0')
		if n > maxLimit {
			return maxLimit
		}
	}
	if n < 1 {
		return defaultLimit
	}
	return n
}

// queryFlag interprets a query parameter as a boolean toggle.
func queryFlag(c echo.Context, name string) bool {
	switch strings.ToLower(c.QueryParam(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// currentUserID returns the authenticated member's ID stored by the
// JWT middleware, or 0 when the request is unauthenticated.
func currentUserID(c echo.Context) uint64 {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id
	}
	return 0
}

// containsFold reports whether s contains substr case-insensitively.
// Free-text filtering happens here, over the already-fetched page,
// rather than in SQL.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
