package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/model"
	"github.com/seckc/community-api/internal/repository"
)

// EventHandler serves the public event browsing endpoints.
type EventHandler struct {
	Events *repository.EventRepo
}

func NewEventHandler(e *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: e}
}

// List returns published events.  Query parameters: category,
// difficulty, upcoming, featured, q (free text), limit.  Unknown
// difficulty values are rejected rather than silently ignored.
func (h *EventHandler) List(c echo.Context) error {
	difficulty := strings.ToLower(strings.TrimSpace(c.QueryParam("difficulty")))
	if difficulty != "" && !validDifficulties[difficulty] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "difficulty must be beginner, intermediate or advanced"})
	}

	filter := repository.EventFilter{
		CategoryID: strings.TrimSpace(c.QueryParam("category")),
		Difficulty: difficulty,
		Upcoming:   queryFlag(c, "upcoming"),
		Featured:   queryFlag(c, "featured"),
		Limit:      clampLimit(c.QueryParam("limit")),
	}

	events, err := h.Events.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Free-text match runs over the fetched page, covering title,
	// description and topics.  It narrows the page rather than
	// re-querying, so a search can return fewer than limit items.
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		events = filterEvents(events, q)
	}

	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

func filterEvents(events []model.Event, q string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if containsFold(ev.Title, q) || containsFold(ev.Description, q) {
			out = append(out, ev)
			continue
		}
		for _, topic := range ev.Topics {
			if containsFold(topic, q) {
				out = append(out, ev)
				break
			}
		}
	}
	return out
}

// Get returns one published event.  Drafts 404 here; organizers see
// them through the admin surface instead.
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.Events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ev.IsPublished {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Categories lists the event categories for filter UIs.
func (h *EventHandler) Categories(c echo.Context) error {
	cats, err := h.Events.ListCategories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": cats})
}
