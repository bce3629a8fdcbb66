package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/workflow-builder/pkg/config"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
	"github.com/de-tools/workflow-builder/pkg/server"
	"github.com/de-tools/workflow-builder/pkg/services/workflow"
	"github.com/de-tools/workflow-builder/pkg/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const storeCloseTimeout = 5 * time.Second

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the workflow builder API server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (defaults and WORKFLOWS_* environment variables apply without one)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())

	workflowStore, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open workflow store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		if err := workflowStore.Close(closeCtx); err != nil {
			logger.Error().Err(err).Msg("failed to close workflow store")
		}
	}()

	logger.Info().Str("driver", cfg.Store.Driver).Strs("humans", cfg.Humans).Msg("configuration loaded")

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	webAPI := server.NewWebAPI(server.Config{
		Addr:            addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Workflows: workflow.NewService(workflowStore),
			Roster:    domain.Roster(cfg.Humans),
			Logger:    logger,
		},
	})

	return webAPI.Start(ctx)
}

func newLogger(cfg config.Log) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logger := zerolog.New(os.Stdout)
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}
