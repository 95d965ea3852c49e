package middleware

import (
	"time"

	"FaceAgeAPI/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDKey = "X-Request-ID"

	maxRequestIDLength = 128
)

// newRequestIDMiddleware keeps a sane client X-Request-ID, otherwise mints a
// ULID. The id is stored in Locals and echoed on the response.
func newRequestIDMiddleware(u utils.IUtils, logger *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = mintRequestID(u, logger)
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}

func mintRequestID(u utils.IUtils, logger *logrus.Logger) string {
	id, err := u.NewULIDFromTimestamp(time.Now())
	if err == nil && id != "" {
		return id
	}

	fallback := uuid.NewString()
	logger.WithFields(logrus.Fields{
		"request_id": fallback,
		"error":      err,
	}).Warn("ULID generation failed, using uuid request id")
	return fallback
}
