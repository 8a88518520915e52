package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mystore/internal/auth"
	"mystore/internal/config"
	"mystore/internal/database"
	"mystore/internal/handlers"
	"mystore/internal/repository"
	"mystore/internal/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	var logger *zap.Logger
	if cfg.GinMode == gin.ReleaseMode {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)

	h := &handlers.Handlers{
		Users:    repository.NewUserRepository(db),
		Products: repository.NewProductRepository(db),
		Orders:   repository.NewOrderRepository(db),
		Tokens:   auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		Config:   cfg,
		Logger:   logger,
	}

	router := routes.SetupRouter(h)

	logger.Info("starting my-store API server", zap.String("addr", cfg.Addr))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
