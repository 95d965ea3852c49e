package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FaceAgeAPI/internal/config"
	"FaceAgeAPI/internal/settings"
	"FaceAgeAPI/pkg/log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg     *settings.Config
	logger  *logrus.Logger
	envFile string
)

var rootCmd = &cobra.Command{
	Use:           "faceage",
	Short:         "Face detection and age estimation HTTP service",
	Version:       settings.ServiceVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvErr := godotenv.Load(envFile)

		var err error
		cfg, err = settings.Load(config.NewValidator())
		if err != nil {
			return err
		}

		logger = log.NewLogger(log.Options{
			Level: cfg.LogLevel,
			Env:   cfg.Env,
			Dir:   cfg.LogDir,
		})

		if dotenvErr != nil {
			logger.Debugf("No env file loaded from %s: %v", envFile, dotenvErr)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
