package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/model"
	"github.com/seckc/community-api/internal/repository"
)

// AdminHandler bundles the organizer-only CRUD surface.  Every route
// it owns sits behind JWTAuth + RequireRole(ADMIN).
type AdminHandler struct {
	Events        *repository.EventRepo
	Resources     *repository.ResourceRepo
	Posts         *repository.SocialRepo
	Stats         *repository.StatsRepo
	Users         *repository.UserRepo
	Notifications *repository.NotificationRepo
}

// ----- events -----

// CreateEvent inserts an event, minting an ID when the organizer did
// not supply a slug.  Publishing a new event bumps the site's event
// counter; a failed bump is logged, not surfaced, since the event
// itself is already stored.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var ev model.Event
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(ev.Title) == "" || ev.EventDate.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and event_date required"})
	}
	if ev.DifficultyLevel == "" {
		ev.DifficultyLevel = "beginner"
	}
	if !validDifficulties[ev.DifficultyLevel] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown difficulty"})
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Create(ctx, &ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	if ev.IsPublished {
		if err := h.Stats.IncrementEventCount(ctx); err != nil {
			log.Printf("admin: event counter bump failed: %v", err)
		}
	}
	created, err := h.Events.Get(ctx, ev.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateEvent rewrites an event wholesale (PUT semantics).
func (h *AdminHandler) UpdateEvent(c echo.Context) error {
	var ev model.Event
	if err := c.Bind(&ev); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ev.ID = c.Param("id")
	if !validDifficulties[ev.DifficultyLevel] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown difficulty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Update(ctx, &ev); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	updated, err := h.Events.Get(ctx, ev.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteEvent removes an event and its RSVPs.
func (h *AdminHandler) DeleteEvent(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- resources -----

func (h *AdminHandler) CreateResource(c echo.Context) error {
	var res model.Resource
	if err := c.Bind(&res); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(res.Title) == "" || strings.TrimSpace(res.URL) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and url required"})
	}
	if !validResourceTypes[res.ResourceType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown resource type"})
	}
	if res.DifficultyLevel == "" {
		res.DifficultyLevel = "beginner"
	}
	if !validDifficulties[res.DifficultyLevel] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown difficulty"})
	}
	if res.Currency == "" {
		res.Currency = "USD"
	}
	if res.ID == "" {
		res.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resources.Create(ctx, &res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create resource failed"})
	}
	created, err := h.Resources.Get(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load resource failed"})
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateResource(c echo.Context) error {
	var res model.Resource
	if err := c.Bind(&res); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res.ID = c.Param("id")
	if !validResourceTypes[res.ResourceType] || !validDifficulties[res.DifficultyLevel] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown resource type or difficulty"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resources.Update(ctx, &res); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update resource failed"})
	}
	updated, err := h.Resources.Get(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load resource failed"})
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) DeleteResource(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resources.Delete(ctx, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete resource failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- social posts -----

func (h *AdminHandler) CreatePost(c echo.Context) error {
	var p model.SocialPost
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(p.AuthorName) == "" || strings.TrimSpace(p.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "author_name and content required"})
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PostedAt.IsZero() {
		p.PostedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Create(ctx, &p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create post failed"})
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminHandler) DeletePost(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Delete(ctx, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete post failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- statistics -----

// UpdateStats overwrites the site statistics wholesale.
func (h *AdminHandler) UpdateStats(c echo.Context) error {
	var s model.SiteStats
	if err := c.Bind(&s); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if s.TotalEvents < 0 || s.TotalMembers < 0 || s.YearsActive < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "statistics must be non-negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Stats.UpdateAll(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update stats failed"})
	}
	return c.JSON(http.StatusOK, h.Stats.Get(ctx))
}

// RefreshMemberCount recomputes total_members from the users table.
func (h *AdminHandler) RefreshMemberCount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Users.CountActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count members failed"})
	}
	if err := h.Stats.UpdateMemberCount(ctx, n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update stats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"total_members": n})
}

// ----- notifications -----

type sendNotificationReq struct {
	UserID    uint64                    `json:"user_id"`
	Kind      model.NotificationKind    `json:"kind"`
	Title     string                    `json:"title"`
	Message   string                    `json:"message"`
	Payload   model.NotificationPayload `json:"payload"`
	ActionURL *string                   `json:"action_url"`
	ExpiresAt *time.Time                `json:"expires_at"`
}

// SendNotification delivers a notification to one member's inbox.
func (h *AdminHandler) SendNotification(c echo.Context) error {
	var req sendNotificationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user_id and title required"})
	}
	if !model.ValidNotificationKind(req.Kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown notification kind"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n := model.Notification{
		UserID:    req.UserID,
		Kind:      req.Kind,
		Title:     req.Title,
		Message:   req.Message,
		Payload:   req.Payload,
		ActionURL: req.ActionURL,
		ExpiresAt: req.ExpiresAt,
	}
	if err := h.Notifications.Create(ctx, &n); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create notification failed"})
	}
	return c.JSON(http.StatusCreated, n)
}
