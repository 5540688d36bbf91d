package middleware // middleware provides reusable HTTP middleware functions

import (
	"net/http" // standard HTTP status codes
	"strings"  // case folding for email comparison

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin returns a middleware enforcing that the authenticated email
// is on the configured admin allow-list.  There are no roles in this
// system; administrative access mirrors the original deployment, which
// gates its dashboard on a short list of organiser emails.  It assumes
// JWTAuth ran earlier and stored the email in the context.
func RequireAdmin(emails []string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(emails))
	for _, e := range emails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := SessionEmail(c)
			if !ok || !allowed[strings.ToLower(email)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
