package config

import (
	"fmt"
	"io"
	"time"

	detectionHandler "FaceAgeAPI/internal/api/detection/handler"
	detectionService "FaceAgeAPI/internal/api/detection/service"
	"FaceAgeAPI/internal/middleware"
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/faceanalysis"
	"FaceAgeAPI/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	cfg        *settings.Config
	middleware middleware.Middleware
	utils      utils.IUtils
	analyzer   faceanalysis.IAnalyzer
	handlers   []handler
	mounted    bool
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.cfg == nil {
		return nil, fmt.Errorf("settings are required")
	}
	if server.analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log, server.cfg, server.utils)
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithSettings(cfg *settings.Config) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.cfg == nil {
			return fmt.Errorf("logger and settings must be initialized before middleware")
		}
		if s.utils == nil {
			s.utils = utils.New()
		}
		s.middleware = middleware.New(s.log, s.cfg, s.utils)
		return nil
	}
}

func WithAnalyzer(analyzer faceanalysis.IAnalyzer) ServerOption {
	return func(s *Server) error {
		if analyzer == nil {
			return fmt.Errorf("analyzer is nil")
		}
		s.analyzer = analyzer
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Detection
	detectionServices := detectionService.NewDetectionService(s.log, s.cfg, s.analyzer, s.utils)
	detectionHandlers := detectionHandler.New(s.log, s.cfg, s.middleware, detectionServices)

	s.handlers = append(s.handlers, detectionHandlers)
}

// mount installs the middleware chain ahead of every route.
func (s *Server) mount() {
	if s.mounted {
		return
	}
	s.mounted = true

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())
	s.engine.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

func (s *Server) Run() error {
	s.mount()

	s.log.WithFields(logrus.Fields{
		"addr":             s.cfg.Addr(),
		"env":              s.cfg.Env,
		"analyzer":         s.analyzer.Name(),
		"detector_backend": s.cfg.DetectorBackend,
		"auth_enabled":     s.cfg.AuthEnabled(),
	}).Info("Starting server")

	return s.engine.Listen(s.cfg.Addr())
}

func (s *Server) Shutdown(timeout time.Duration) error {
	err := s.engine.ShutdownWithTimeout(timeout)

	if closer, ok := s.analyzer.(io.Closer); ok {
		if closeErr := closer.Close(); closeErr != nil {
			s.log.Errorf("Failed to release analyzer: %v", closeErr)
		}
	}

	return err
}
