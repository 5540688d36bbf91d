package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/middleware"
	"github.com/aibf/conference-registration/internal/model"
)

// UpdateProfile handles POST /v1/profile.  The profile itself lives on the
// backend; this endpoint forwards the update and fires the profile-saved
// eligibility trigger, which is what can flip the gate from NEEDS_PROFILE
// to OPEN without any polling.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	email, ok := middleware.SessionEmail(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var p model.UserProfile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	// The session, not the request body, decides whose profile is written.
	p.Email = email

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	saved, err := h.Backend.CompleteProfile(ctx, p)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "profile update failed"})
	}
	if h.Bus != nil {
		h.Bus.Publish(eligibility.TriggerProfileSaved, email)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"profile":  saved,
		"complete": saved.IsComplete(),
	})
}
