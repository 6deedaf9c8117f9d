package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/openedge/fastsync/cmd/fastsync/commands"
	"github.com/openedge/fastsync/pkg/telemetry"
	"github.com/rs/zerolog/log"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	// Setup structured logging
	setupLogging()

	// Create context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received interrupt signal, shutting down...")
		cancel()
	}()

	// Execute root command
	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

// setupLogging installs the shared logger factory's output as the global
// logger. LOG_LEVEL overrides the default level before flag parsing runs.
func setupLogging() {
	cfg := telemetry.DefaultLoggingConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}
	logger, err := telemetry.NewLogger(cfg)
	if err != nil {
		logger, _ = telemetry.NewLogger(telemetry.DefaultLoggingConfig())
		logger.Warn().Err(err).Msg("Ignoring invalid LOG_LEVEL")
	}
	log.Logger = logger
}
