package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrelz/cryptowallet/internal/api"
	"github.com/andrelz/cryptowallet/internal/catalog"
	"github.com/andrelz/cryptowallet/internal/config"
	"github.com/andrelz/cryptowallet/internal/repository"
	"github.com/andrelz/cryptowallet/internal/service"
	"github.com/andrelz/cryptowallet/internal/utils"
)

func main() {
	logger := utils.NewLogger()

	// Load configuration
	cfg := config.LoadConfig()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Create service
	svc := service.NewDefaultService(repo, catalog.Default(), cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)

	// Create API handler
	handler := api.NewHandler(svc, logger)

	// Set up Gin router
	router := gin.Default()

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
