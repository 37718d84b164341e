package main

import (
	"context"
	"os"

	"github.com/yigit/greenfield/internal/pkg/logger"
	"github.com/yigit/greenfield/internal/server"
)

// @title Greenfield University Portal API
// @version 1.0
// @description Portal for students, faculty and administrators of Greenfield University, plus public admissions and contact endpoints.

// @contact.name Greenfield IT Services
// @contact.email it@greenfield.edu

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name auth_token
// @description Session JWT issued by /api/auth/login

func main() {
	srv, err := server.NewServer(context.Background())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
