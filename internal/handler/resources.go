package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/model"
	"github.com/seckc/community-api/internal/repository"
)

// ResourceHandler serves the public resource browsing endpoints.
type ResourceHandler struct {
	Resources *repository.ResourceRepo
}

func NewResourceHandler(r *repository.ResourceRepo) *ResourceHandler {
	return &ResourceHandler{Resources: r}
}

// List returns approved resources.  Query parameters: category, type,
// difficulty, free, featured, q, limit.
func (h *ResourceHandler) List(c echo.Context) error {
	difficulty := strings.ToLower(strings.TrimSpace(c.QueryParam("difficulty")))
	if difficulty != "" && !validDifficulties[difficulty] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "difficulty must be beginner, intermediate or advanced"})
	}
	rtype := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if rtype != "" && !validResourceTypes[rtype] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown resource type"})
	}

	filter := repository.ResourceFilter{
		CategoryID:   strings.TrimSpace(c.QueryParam("category")),
		Type:         rtype,
		Difficulty:   difficulty,
		FreeOnly:     queryFlag(c, "free"),
		FeaturedOnly: queryFlag(c, "featured"),
		Limit:        clampLimit(c.QueryParam("limit")),
	}

	resources, err := h.Resources.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		resources = filterResources(resources, q)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": resources})
}

func filterResources(resources []model.Resource, q string) []model.Resource {
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if containsFold(r.Title, q) || containsFold(r.Description, q) {
			out = append(out, r)
			continue
		}
		for _, tag := range r.Tags {
			if containsFold(tag, q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Get returns one approved resource.
func (h *ResourceHandler) Get(c echo.Context) error {
	res, err := h.Resources.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !res.IsApproved {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
	}
	return c.JSON(http.StatusOK, res)
}
