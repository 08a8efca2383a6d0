package middleware

import (
	"net/http"

	"github.com/softline/vitrine/internal/common"

	"github.com/labstack/echo/v4"
)

// RequireRole rejects authenticated requests whose role claim is not one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if _, ok := common.GetSubjectFromContext(ctx); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Usuário não autenticado")
			}
			role, _ := common.GetRoleFromContext(ctx)
			if !allowed[role] {
				return echo.NewHTTPError(http.StatusForbidden, "Permissão insuficiente")
			}
			return next(c)
		}
	}
}
