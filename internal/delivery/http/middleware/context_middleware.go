package middleware

import (
	"log/slog"

	delivctx "lookmarket/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextMiddleware seeds every request with a request ID and a
// request-scoped logger so the usecases can log with correlation.
type ContextMiddleware struct {
	logger *slog.Logger
}

// NewContextMiddleware creates a new context middleware
func NewContextMiddleware(logger *slog.Logger) *ContextMiddleware {
	return &ContextMiddleware{logger: logger}
}

// Handle attaches the request ID and scoped logger to both the echo context
// and the request's context.Context. Inbound X-Request-Id headers are kept so
// traces span services.
func (m *ContextMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(delivctx.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Response().Header().Set(delivctx.HeaderXRequestID, requestID)

		requestLogger := m.logger.With(slog.String("request_id", requestID))

		ctx := c.Request().Context()
		ctx = delivctx.WithRequestID(ctx, requestID)
		ctx = delivctx.WithLogger(ctx, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
