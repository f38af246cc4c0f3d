package middleware

import (
	"github.com/google/uuid"
	"github.com/keamoral/ouijagames/gomicro/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDHeader carries the correlation id between storefront and catalog
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware keeps the caller's request ID (or generates one) and
// attaches a request-scoped logger to the context
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
				c.Request().Header.Set(RequestIDHeader, requestID)
			}

			c.Response().Header().Set(RequestIDHeader, requestID)
			c.Set("request_id", requestID)

			ctxLogger := logger.GetLogger().With(zap.String("request_id", requestID))
			c.Set("logger", ctxLogger)
			// code below the handlers only sees context.Context
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context(), ctxLogger)))

			return next(c)
		}
	}
}
