package middleware

import (
	"github.com/labstack/echo/v4"
)

// VersionMiddleware groups routes under a versioned prefix.
type VersionMiddleware struct {
	current string
	message string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		current: "v1",
		message: "Current stable API version",
	}
}

// VersionHeader adds version information to response headers.
func (vm *VersionMiddleware) VersionHeader(version string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set("X-API-Version", version)
			if version == vm.current {
				c.Response().Header().Set("X-API-Message", vm.message)
			}
			return next(c)
		}
	}
}

// VersionRoute creates a version-specific route group.
func (vm *VersionMiddleware) VersionRoute(e *echo.Echo, version string) *echo.Group {
	group := e.Group("/" + version)
	group.Use(vm.VersionHeader(version))
	return group
}

func (vm *VersionMiddleware) GetCurrentVersion() string {
	return vm.current
}
