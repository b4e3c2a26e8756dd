package middleware

import (
	"context"

	"maintenance-system/pkg/contextkeys"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestID помечает каждый запрос уникальным идентификатором —
// его же возвращаем клиенту в заголовке X-Request-Id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get("X-Request-Id")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			c.Response().Header().Set("X-Request-Id", requestID)

			ctx := context.WithValue(c.Request().Context(), contextkeys.RequestIDKey, requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
