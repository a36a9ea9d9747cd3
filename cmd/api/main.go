package main

import (
	"context"
	"os"

	"github.com/yigit/buspass/internal/pkg/logger"
	"github.com/yigit/buspass/internal/server"
)

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		// Details were logged by the setup steps.
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
