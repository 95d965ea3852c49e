package detectionHandler

import (
	"FaceAgeAPI/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
)

func (h *DetectionHandler) Health(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, h.detectionService.Health().Payload())
}
