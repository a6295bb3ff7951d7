package middleware

import (
	"strings"

	"savor/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserIDHeader carries the optional owner reference for pantry rows.
const UserIDHeader = "X-User-ID"

// Owner copies a well-formed X-User-ID header into the request context.
// The value is not verified; a missing or malformed header leaves the
// request ownerless.
func Owner(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
		if raw == "" {
			return next(c)
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			return next(c)
		}

		req := c.Request()
		c.SetRequest(req.WithContext(common.WithUserID(req.Context(), userID)))
		return next(c)
	}
}
