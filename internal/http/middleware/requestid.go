package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
	loggerKey       = "logger"
)

// RequestID tags every request with a uuid and stores a request scoped logger on the
// echo context.
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.New().String()

			c.Request().Header.Set(HeaderRequestID, requestID)
			c.Response().Header().Set(HeaderRequestID, requestID)
			c.Set(requestIDKey, requestID)
			c.Set(loggerKey, base.With(zap.String("request_id", requestID)))

			return next(c)
		}
	}
}

// Logger returns the request scoped logger, or a no-op logger outside RequestID.
func Logger(c echo.Context) *zap.Logger {
	if log, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

func GetRequestID(c echo.Context) string {
	id, _ := c.Get(requestIDKey).(string)
	return id
}
