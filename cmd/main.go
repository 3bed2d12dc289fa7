package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/patrick-etcheverry/tuto-authentification/config"
	"github.com/patrick-etcheverry/tuto-authentification/db"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/domain"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/handler"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/password"
	repo "github.com/patrick-etcheverry/tuto-authentification/internal/auth/repository/postgres"
	"github.com/patrick-etcheverry/tuto-authentification/internal/auth/service"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	if err := db.Migrate(ctx, cfg.DBURL); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer dbPool.Close()

	accountStore := repo.NewAccountRepository(dbPool)
	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	accountService := service.NewAccountService(accountStore, tokenService,
		password.NewBcryptHasher(cfg.BcryptCost), domain.SystemClock{}, domain.CryptoRand{}, cfg)
	authHandler := handler.NewAuthHandler(accountService, tokenService)

	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	handler.RegisterRoutes(app, authHandler)

	log.Fatal(app.Listen(":" + cfg.Port))
}
