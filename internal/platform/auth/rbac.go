package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Roles carried in the roles claim.
const (
	RoleAdmin     = "admin"
	RoleRegistrar = "registrar"
)

// RequireRole lets the request through when the caller holds any of roles.
// RoleAdmin is always accepted.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := map[string]bool{RoleAdmin: true}
	for _, r := range roles {
		allowed[r] = true
	}
	denied := "required role: " + strings.Join(roles, " or ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, has := range RolesFromContext(c.Request().Context()) {
				if allowed[has] {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, denied)
		}
	}
}
