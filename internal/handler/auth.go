package handler

import (
	"context" // context with cancellation for backend calls
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aibf/conference-registration/internal/backend"
	"github.com/aibf/conference-registration/internal/config"
	"github.com/aibf/conference-registration/internal/eligibility"
	"github.com/aibf/conference-registration/internal/middleware"
	"github.com/aibf/conference-registration/internal/utils"
)

// AuthHandler bundles dependencies for the sign-in exchange.  There are no
// local credentials: identity is delegated to Google, the credential is
// exchanged with the backend for the user record, and this service only
// mints the session JWT.
type AuthHandler struct {
	Cfg     config.Config
	Backend *backend.Client
	Bus     *eligibility.Bus
}

func NewAuthHandler(cfg config.Config, b *backend.Client, bus *eligibility.Bus) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Backend: b, Bus: bus}
}

// ----- DTOs -----

type googleSignInReq struct {
	Credential string `json:"credential"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
type signInResp struct {
	User            userPart  `json:"user"`
	Access          tokenPart `json:"access"`
	ProfileComplete bool      `json:"profile_complete"`
}

// GoogleSignIn: exchange a Google identity token for a session.  The
// credential is opaque here; the backend validates it and returns (or
// creates) the user record.  A successful exchange publishes the login
// eligibility trigger so any cached verdict for this email is recomputed.
func (h *AuthHandler) GoogleSignIn(c echo.Context) error {
	var req googleSignInReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Credential) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "credential required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Backend.GoogleSignIn(ctx, req.Credential)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "sign-in failed"})
	}

	session, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Name, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	if h.Bus != nil {
		h.Bus.Publish(eligibility.TriggerLogin, u.Email)
	}

	return c.JSON(http.StatusOK, signInResp{
		User:            userPart{ID: u.ID, Email: u.Email, Name: u.Name},
		Access:          tokenPart{Token: session.Token, Expires: session.Exp},
		ProfileComplete: u.IsComplete(),
	})
}

// Logout: sessions are stateless JWTs, so logging out is the client
// discarding its token.  The endpoint still exists to fire the logout
// eligibility trigger for the (optional) bearer it was called with.
func (h *AuthHandler) Logout(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if claims, ok := middleware.ParseSession(raw, h.Cfg.JWTSecret); ok {
			if email, ok := claims["email"].(string); ok && email != "" && h.Bus != nil {
				h.Bus.Publish(eligibility.TriggerLogout, email)
			}
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get("user_id"),
		"email":   c.Get("email"),
	})
}
