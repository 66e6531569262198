package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireCategory returns a middleware that enforces that the
// authenticated user belongs to one of the given categories (the
// values stored in the JWT's "category" claim).  It assumes JWTAuth
// already ran and stored the claim under the "category" context key.
func RequireCategory(categories ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			v := c.Get("category")
			cat, ok := v.(string)
			if !ok || !allowed[cat] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
