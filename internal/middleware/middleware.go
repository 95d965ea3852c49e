package middleware

import (
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewAPIKeyMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	apiKey              *apiKeyGate
	rateLimitter        *rateLimiter
	loggingMiddleware   fiber.Handler
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, cfg *settings.Config, u utils.IUtils) Middleware {
	return &middleware{
		apiKey:              newAPIKeyGate(cfg.APIKey),
		rateLimitter:        newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		loggingMiddleware:   newLoggingMiddleware(logger),
		requestIDMiddleware: newRequestIDMiddleware(u, logger),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return m.loggingMiddleware
}
