package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/middleware"
	"github.com/seckc/community-api/internal/queue"
	"github.com/seckc/community-api/internal/repository"
	queuepub "github.com/seckc/community-api/internal/service"
)

// RSVPStore is the slice of the RSVP repository the handler consumes.
// It is an interface so tests can swap in a stub and so the storage
// backend stays replaceable.
type RSVPStore interface {
	Status(ctx context.Context, eventID, userID string) bool
	StatusAll(ctx context.Context, userID string) map[string]bool
	Count(ctx context.Context, eventID string) int
	Counts(ctx context.Context, eventIDs []string) map[string]int
	Add(ctx context.Context, eventID, userID string) (bool, error)
	Remove(ctx context.Context, eventID, userID string) (bool, error)
	Toggle(ctx context.Context, eventID, userID string) (repository.ToggleResult, error)
}

// RSVPHandler serves the attributed RSVP endpoints.  Every route it
// owns sits behind the AttributedIdentity middleware, so Actor is
// always populated.
type RSVPHandler struct {
	Store RSVPStore
	// Publish pushes a change event to the broker; nil disables
	// publishing (tests, broker-less deployments).
	Publish func(ctx context.Context, ev queue.RSVPChangedEvent) error
}

func NewRSVPHandler(store RSVPStore) *RSVPHandler {
	return &RSVPHandler{Store: store, Publish: queuepub.PublishRSVPChanged}
}

// Status reports whether the caller RSVPed to the event.
func (h *RSVPHandler) Status(c echo.Context) error {
	eventID := c.Param("id")
	actor := middleware.Actor(c)
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":  eventID,
		"is_rsvped": h.Store.Status(c.Request().Context(), eventID, actor),
	})
}

// StatusAll lists every event the caller currently RSVPs to.
func (h *RSVPHandler) StatusAll(c echo.Context) error {
	statuses := h.Store.StatusAll(c.Request().Context(), middleware.Actor(c))
	ids := make([]string, 0, len(statuses))
	for id := range statuses {
		ids = append(ids, id)
	}
	return c.JSON(http.StatusOK, echo.Map{"event_ids": ids})
}

// Count returns the event's stored attendee counter.
func (h *RSVPHandler) Count(c echo.Context) error {
	eventID := c.Param("id")
	return c.JSON(http.StatusOK, echo.Map{
		"event_id": eventID,
		"count":    h.Store.Count(c.Request().Context(), eventID),
	})
}

type batchCountsReq struct {
	EventIDs []string `json:"event_ids"`
}

// BatchCounts returns counters for up to 100 events at once.
func (h *RSVPHandler) BatchCounts(c echo.Context) error {
	var req batchCountsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if len(req.EventIDs) > maxLimit {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many event ids"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"counts": h.Store.Counts(c.Request().Context(), req.EventIDs),
	})
}

// Add records the caller's RSVP.  Repeats are harmless; the response
// says whether anything changed.
func (h *RSVPHandler) Add(c echo.Context) error {
	eventID := c.Param("id")
	actor := middleware.Actor(c)

	added, err := h.Store.Add(c.Request().Context(), eventID, actor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "rsvp failed"})
	}
	count := h.Store.Count(c.Request().Context(), eventID)
	if added {
		h.publishChange(eventID, actor, queue.ActionAdd, count)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":  eventID,
		"is_rsvped": true,
		"changed":   added,
		"count":     count,
	})
}

// Remove cancels the caller's RSVP.  Removing a nonexistent RSVP is a
// no-op, not an error.
func (h *RSVPHandler) Remove(c echo.Context) error {
	eventID := c.Param("id")
	actor := middleware.Actor(c)

	removed, err := h.Store.Remove(c.Request().Context(), eventID, actor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel rsvp failed"})
	}
	count := h.Store.Count(c.Request().Context(), eventID)
	if removed {
		h.publishChange(eventID, actor, queue.ActionRemove, count)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":  eventID,
		"is_rsvped": false,
		"changed":   removed,
		"count":     count,
	})
}

// Toggle flips the caller's RSVP state and returns the authoritative
// result the UI should render.
func (h *RSVPHandler) Toggle(c echo.Context) error {
	eventID := c.Param("id")
	actor := middleware.Actor(c)

	res, err := h.Store.Toggle(c.Request().Context(), eventID, actor)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle rsvp failed"})
	}
	action := queue.ActionRemove
	if res.IsRSVPed {
		action = queue.ActionAdd
	}
	h.publishChange(eventID, actor, action, res.NewCount)
	return c.JSON(http.StatusOK, res)
}

// publishChange fires the broker notification in the background.  A
// publish failure is already logged by the publisher; the mutation
// result must not depend on it.
func (h *RSVPHandler) publishChange(eventID, userID string, action queue.RSVPAction, count int) {
	if h.Publish == nil {
		return
	}
	ev := queue.NewRSVPChangedEvent(eventID, userID, action, count)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Publish(ctx, ev)
	}()
}
