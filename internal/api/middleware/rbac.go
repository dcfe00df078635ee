package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mentorlink/attendance-portal/internal/core/domain"
)

// RBAC enforces role-based access control on routes behind Auth. A caller
// with the wrong role gets domain.ErrForbidden, which the central error
// handler renders as 403.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
