package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/repository"
)

// StatsHandler serves the home-screen statistics.
type StatsHandler struct {
	Stats *repository.StatsRepo
}

func NewStatsHandler(s *repository.StatsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// Get returns the site statistics.  The repository already degrades to
// defaults, so this endpoint cannot fail.
func (h *StatsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Stats.Get(c.Request().Context()))
}
