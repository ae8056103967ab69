package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/seckc/community-api/internal/model"
	"github.com/seckc/community-api/internal/repository"
	"github.com/seckc/community-api/internal/settings"
)

// ProfileHandler serves the member's own profile mutations.
type ProfileHandler struct {
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(p *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

type profileUpdateReq struct {
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	DisplayName     *string `json:"display_name"`
	Bio             *string `json:"bio"`
	Company         *string `json:"company"`
	JobTitle        *string `json:"job_title"`
	LinkedinURL     *string `json:"linkedin_url"`
	TwitterHandle   *string `json:"twitter_handle"`
	GithubUsername  *string `json:"github_username"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UpdateProfile applies a partial profile edit.  Absent fields stay
// untouched; present fields overwrite, including explicit empties.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Profiles.Update(ctx, uid, repository.ProfileUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Company:         req.Company,
		JobTitle:        req.JobTitle,
		LinkedinURL:     req.LinkedinURL,
		TwitterHandle:   req.TwitterHandle,
		GithubUsername:  req.GithubUsername,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update profile failed"})
	}

	p, err := h.Profiles.Get(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load profile failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     p.UserID,
		"first_name":  p.FirstName,
		"last_name":   p.LastName,
		"preferences": p.Preferences,
		"updated_at":  p.UpdatedAt,
	})
}

// UpdatePreferences replaces the stored preference document wholesale
// (PUT semantics).  The theme value is validated against the device
// settings enumeration so both sides of the sync agree on the set.
func (h *ProfileHandler) UpdatePreferences(c echo.Context) error {
	uid := currentUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var prefs model.UserPreferences
	if err := c.Bind(&prefs); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !settings.ValidTheme(settings.ThemeMode(prefs.Theme)) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theme must be auto, light or dark"})
	}
	if prefs.Language == "" {
		prefs.Language = "en"
	}
	if prefs.FontSize == 0 {
		prefs.FontSize = 16
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Profiles.UpdatePreferences(ctx, uid, prefs); err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update preferences failed"})
	}
	return c.JSON(http.StatusOK, prefs)
}
