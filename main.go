package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/anggaSaputra16/management-assets-sub004/cmd"
	"github.com/anggaSaputra16/management-assets-sub004/internal/core/container"
	"github.com/anggaSaputra16/management-assets-sub004/internal/core/logger"
	"github.com/anggaSaputra16/management-assets-sub004/internal/core/routes"
	"github.com/anggaSaputra16/management-assets-sub004/internal/database"
	"github.com/anggaSaputra16/management-assets-sub004/internal/middleware"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	appLogger := logger.NewLogger()
	defer appLogger.Sync() //nolint:errcheck

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		appLogger.Fatal("DATABASE_URL is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		appLogger.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	appLogger.Info("connected to the database")

	appContainer := container.NewAppContainer(db, appLogger)

	router := gin.Default()
	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.TimeoutMiddleware(30 * time.Second))

	routes.RegisterUtilityRoutes(router)
	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		appLogger.Fatal("server stopped", zap.Error(err))
	}
}
