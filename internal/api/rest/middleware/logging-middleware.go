package middleware

import (
	"time"

	"github.com/SundayYogurt/account_service/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs every request and records it in m. Query strings are
// left out since reset and verification tokens travel there.
func RequestLogger(log *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		chainErr := ctx.Next()
		if chainErr != nil {
			// let the app error handler pick the status before we read it
			if err := ctx.App().ErrorHandler(ctx, chainErr); err != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := ctx.Response().StatusCode()
		elapsed := time.Since(start)
		route := ctx.Route().Path

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.Path()),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", ctx.IP()),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}

		m.ObserveHTTP(ctx.Method(), route, status, elapsed)
		return nil
	}
}
