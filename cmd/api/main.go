package main

import (
	"context"
	"os"

	"github.com/yigit/resultdesk/internal/pkg/logger"
	"github.com/yigit/resultdesk/internal/server"
)

// @title Result Desk API
// @version 1.0
// @description Student result records and the server-side student form

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Setup functions log the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
