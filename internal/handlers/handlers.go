package handlers

import (
	"go.uber.org/zap"

	"mystore/internal/auth"
	"mystore/internal/config"
	"mystore/internal/repository"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Users    repository.UserRepository
	Products repository.ProductRepository
	Orders   repository.OrderRepository
	Tokens   *auth.TokenIssuer
	Config   *config.Config
	Logger   *zap.Logger
}
