package main

import (
	"time"

	"FaceAgeAPI/internal/config"
	"FaceAgeAPI/pkg/utils"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	u := utils.New()

	analyzer, err := config.NewAnalyzer(cfg, u, logger)
	if err != nil {
		return err
	}

	server, err := config.NewServer(
		config.WithFiber(config.NewFiber(cfg, logger)),
		config.WithLogger(logger),
		config.WithSettings(cfg),
		config.WithUtils(),
		config.WithMiddleware(),
		config.WithAnalyzer(analyzer),
	)
	if err != nil {
		return err
	}

	server.RegisterHandler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-cmd.Context().Done():
	}

	logger.Info("Shutting down server...")
	if err := server.Shutdown(shutdownTimeout); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
		return err
	}
	logger.Info("Server stopped")

	return nil
}
