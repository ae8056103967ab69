package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/repository"
)

// BookmarkHandler serves members' saved resources.  All routes sit
// behind JWTAuth; bookmarks are account-only, unlike RSVPs.
type BookmarkHandler struct {
	Bookmarks *repository.BookmarkRepo
}

func NewBookmarkHandler(b *repository.BookmarkRepo) *BookmarkHandler {
	return &BookmarkHandler{Bookmarks: b}
}

// List returns the member's saved resources, most recent first.
func (h *BookmarkHandler) List(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookmarks.ListForUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Add saves a resource.  Saving twice reports changed=false.
func (h *BookmarkHandler) Add(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	added, err := h.Bookmarks.Add(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save bookmark failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarked": true, "changed": added})
}

// Remove deletes a saved resource.  Removing a missing bookmark
// reports changed=false.
func (h *BookmarkHandler) Remove(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	removed, err := h.Bookmarks.Remove(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove bookmark failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookmarked": false, "changed": removed})
}
