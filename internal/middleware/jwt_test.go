package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibf/conference-registration/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(mw echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/v1/me", func(c echo.Context) error {
		email, _ := SessionEmail(c)
		return c.JSON(http.StatusOK, echo.Map{"email": email})
	}, mw)
	return e
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 9, "jane@example.com", "Jane", 60)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jane@example.com")
}

func TestJWTAuthRejects(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	// Missing header.
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	tok, err := utils.NewSessionToken("other-secret", 9, "jane@example.com", "Jane", 60)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsExpired(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, 9, "jane@example.com", "Jane", -1)
	require.NoError(t, err)

	e := protectedEcho(JWTAuth(testSecret))
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		// Stand-in for JWTAuth: inject the session email.
		return func(c echo.Context) error {
			c.Set("email", c.Request().Header.Get("X-Test-Email"))
			return next(c)
		}
	}, RequireAdmin([]string{"Organiser@aibf.org.au"}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Test-Email", "organiser@aibf.org.au")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "allow-list comparison is case-insensitive")

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Test-Email", "attendee@example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
