package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/yigit/academia/internal/pkg/logger"
	"github.com/yigit/academia/internal/server"
)

// @title Academia Session Lifecycle API
// @version 1.0
// @description Academic session lifecycle: intake approval, semester promotion, enrollment capacity and administrative holds
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	configPath := flag.String("config", filepath.Join("configs", "config.yaml"), "path to the YAML config file")
	flag.Parse()

	srv, err := server.NewServer(*configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Server stopped with errors")
		os.Exit(1)
	}
}
