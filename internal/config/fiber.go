package config

import (
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(cfg *settings.Config, logger *logrus.Logger) *fiber.App {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	app := fiber.New(
		fiber.Config{
			AppName:               settings.ServiceName,
			BodyLimit:             cfg.MaxImageBytes(),
			DisableKeepalive:      false,
			StrictRouting:         true,
			CaseSensitive:         true,
			EnablePrintRoutes:     cfg.Env == "development",
			DisableStartupMessage: cfg.Env != "development",
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
			ErrorHandler:          handlerUtil.New(logger).FiberErrorHandler,
		})

	return app
}
