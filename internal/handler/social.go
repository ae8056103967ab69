package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/repository"
)

// SocialHandler serves the read-only social feed.
type SocialHandler struct {
	Posts *repository.SocialRepo
}

func NewSocialHandler(s *repository.SocialRepo) *SocialHandler {
	return &SocialHandler{Posts: s}
}

// List returns syndicated posts.  Query parameters: platform,
// featured, limit.
func (h *SocialHandler) List(c echo.Context) error {
	filter := repository.SocialFilter{
		Platform:     strings.ToLower(strings.TrimSpace(c.QueryParam("platform"))),
		FeaturedOnly: queryFlag(c, "featured"),
		Limit:        clampLimit(c.QueryParam("limit")),
	}
	posts, err := h.Posts.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": posts})
}
