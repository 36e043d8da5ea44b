package main

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/shopspring/decimal"

	"cardswitch/internal/auth"
	"cardswitch/internal/cache"
	"cardswitch/internal/config"
	"cardswitch/internal/db"
	"cardswitch/internal/handler"
	"cardswitch/internal/hashutil"
	"cardswitch/internal/model"
	"cardswitch/internal/repository"
	"cardswitch/internal/router"
	"cardswitch/internal/service"
)

func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.Card{}, &model.Transaction{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	cardRepo := repository.NewCardRepository(gormDB)
	txnRepo := repository.NewTransactionRepository(gormDB)

	// Seed demo cards on an empty store
	if err := seedCards(context.Background(), cardRepo, cfg.SeedCards); err != nil {
		log.Fatalf("seed cards: %v", err)
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	processor := service.NewProcessingService(cardRepo, txnRepo, cacheClient)
	queries := service.NewQueryService(cardRepo, txnRepo, cacheClient)
	auths := service.NewAuthService(cardRepo, jwtService, cfg.AdminUsername, cfg.AdminPassword)

	// Initialize handlers
	processHandler := handler.NewProcessHandler(processor)
	queryHandler := handler.NewQueryHandler(queries)
	authHandler := handler.NewAuthHandler(auths)

	// Register routes
	router.Register(e, cfg, processHandler, queryHandler, authHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// seedCards applies the configured bootstrap tuples through the same
// Save path used at runtime, gated on an empty store.
func seedCards(ctx context.Context, cards repository.CardRepository, seeds []config.SeedCard) error {
	count, err := cards.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seeded := 0
	for _, seed := range seeds {
		balance, err := decimal.NewFromString(seed.Balance)
		if err != nil {
			log.Printf("skipping seed card with invalid balance %q", seed.Balance)
			continue
		}
		card := &model.Card{
			CardHash: hashutil.Digest(seed.Number),
			PINHash:  hashutil.Digest(seed.PIN),
			Balance:  balance,
		}
		if err := cards.Save(ctx, card); err != nil {
			return err
		}
		seeded++
	}

	log.Printf("seeded %d cards", seeded)
	return nil
}
