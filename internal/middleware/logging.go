package middleware

import (
	"time"

	"FaceAgeAPI/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// newLoggingMiddleware writes one access line per request. Errors from the
// chain are rendered here so the logged status is the one the client sees.
func newLoggingMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		if err := c.Next(); err != nil {
			if handleErr := c.App().ErrorHandler(c, err); handleErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()

		logFields := log.Fields{
			"request_id":     requestID,
			"method":         c.Method(),
			"path":           c.Path(),
			"status":         status,
			"latency_ms":     time.Since(start).Milliseconds(),
			"ip":             c.IP(),
			"user_agent":     c.Get(fiber.HeaderUserAgent),
			"content_type":   c.Get(fiber.HeaderContentType),
			"content_length": len(c.Request().Body()),
			"response_size":  len(c.Response().Body()),
		}

		entry := logger.WithFields(logFields)
		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("Server error")
		case status >= fiber.StatusBadRequest:
			entry.Warn("Client error")
		default:
			entry.Info("Success")
		}

		return nil
	}
}
