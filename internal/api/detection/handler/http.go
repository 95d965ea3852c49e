package detectionHandler

import (
	detectionService "FaceAgeAPI/internal/api/detection/service"
	"FaceAgeAPI/internal/middleware"
	"FaceAgeAPI/internal/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	cfg              *settings.Config
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
}

func New(
	log *logrus.Logger,
	cfg *settings.Config,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		cfg:              cfg,
		middleware:       middleware,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	srv.Get("/health", h.Health)
	srv.Post("/detect", h.middleware.NewAPIKeyMiddleware, h.Detect)
}
