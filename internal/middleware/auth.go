package middleware

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"yorkpress/internal/auth"
	"yorkpress/internal/errors"
	"yorkpress/internal/service"
)

// principalKey is the context key echo-jwt stores the parsed token under.
const principalKey = "user"

// SessionAuth validates the Bearer session token and stores the decoded
// principal in the request context. Verification is delegated to the
// token service so unrecognized roles fail closed in one place.
func SessionAuth(tokens *auth.TokenService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: principalKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			return tokens.Verify(raw)
		},
	})
}

// Principal returns the authenticated principal, or false when absent.
func Principal(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(principalKey).(*auth.Claims)
	return claims, ok
}

// RequireRole allows the request only when the principal's role is one of
// roles. A missing principal is 401; a valid principal with the wrong
// role is 403. Deny is the default for anything unrecognized.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "authentication required",
					Code:  "UNAUTHORIZED",
				})
			}
			if !allowed[principal.Role] {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "insufficient role",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

// RequirePermission allows the request only when the principal's role
// grants the named permission. Store failures deny with a 500 rather
// than falling open.
func RequirePermission(perms service.PermissionService, permission string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := Principal(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "authentication required",
					Code:  "UNAUTHORIZED",
				})
			}
			granted, err := perms.HasPermission(c.Request().Context(), principal.Role, permission)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
					Error: "authorization check failed",
					Code:  "INTERNAL_ERROR",
				})
			}
			if !granted {
				return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
					Error: "missing permission: " + permission,
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}
