package middleware

import (
	"crypto/subtle"
	"net/http"

	"FaceAgeAPI/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const APIKeyHeader = "x-api-key"

var (
	ErrMissingAPIKey = response.NewError(response.KindAuth, "missing_api_key", http.StatusUnauthorized, "API Key is missing. Please provide 'x-api-key' header.")
	ErrInvalidAPIKey = response.NewError(response.KindAuth, "invalid_api_key", http.StatusForbidden, "Invalid API Key provided.")
)

type apiKeyGate struct {
	key []byte
}

func newAPIKeyGate(key string) *apiKeyGate {
	return &apiKeyGate{key: []byte(key)}
}

func (g *apiKeyGate) enabled() bool {
	return len(g.key) > 0
}

func (g *apiKeyGate) check(provided string) error {
	if !g.enabled() {
		return nil
	}
	if provided == "" {
		return ErrMissingAPIKey
	}
	if subtle.ConstantTimeCompare([]byte(provided), g.key) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}

// NewAPIKeyMiddleware is a no-op when no API key is configured.
func (m *middleware) NewAPIKeyMiddleware(ctx *fiber.Ctx) error {
	if err := m.apiKey.check(ctx.Get(APIKeyHeader)); err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"client_ip":  ctx.IP(),
		}).Warn("API key check failed")
		return err
	}

	return ctx.Next()
}
