package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/witcharon/salesconnfig/internal/api"
	"github.com/witcharon/salesconnfig/internal/api/handlers"
	"github.com/witcharon/salesconnfig/internal/api/middleware"
	"github.com/witcharon/salesconnfig/internal/engine/directory"
	"github.com/witcharon/salesconnfig/internal/pkg/logger"
	"github.com/witcharon/salesconnfig/internal/platform/auth"
	"github.com/witcharon/salesconnfig/internal/platform/config"
	"github.com/witcharon/salesconnfig/internal/platform/database"
	"github.com/witcharon/salesconnfig/internal/platform/identity"
	"github.com/witcharon/salesconnfig/internal/platform/repositories"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	// Elevated database connection. Constructed once here and handed
	// only to the repositories; nothing outside this wiring sees it.
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	leadGenRepo := repositories.NewLeadGenRepository(db)

	// Services
	tokenSvc := auth.NewTokenService(cfg.Identity)
	cookies := auth.NewSessionCodec(cfg.Identity)
	idClient := identity.NewClient(cfg.Identity)
	directorySvc := directory.NewService(userRepo, subRepo, leadGenRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(idClient, tokenSvc, cookies, userRepo)
	userHandler := handlers.NewUserHandler(directorySvc, idClient, userRepo, subRepo)
	subscriptionHandler := handlers.NewSubscriptionHandler(subRepo)
	migrateHandler := handlers.NewMigrateHandler(cfg.Migration)
	healthHandler := handlers.NewHealthHandler(db)

	// Middleware
	gate := middleware.NewGate(tokenSvc, cookies, userRepo, idClient, cfg.Gate)

	router := api.NewRouter(&api.Dependencies{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		SubscriptionHandler: subscriptionHandler,
		MigrateHandler:      migrateHandler,
		HealthHandler:       healthHandler,
		Gate:                gate,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	log.Printf("Server starting on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
