package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/geordanr/xwing-backend/internal/config"
	"github.com/geordanr/xwing-backend/internal/database"
	"github.com/geordanr/xwing-backend/internal/handlers"
	authmw "github.com/geordanr/xwing-backend/internal/middleware"
	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/geordanr/xwing-backend/internal/store"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	documents := store.New(db)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	identityService := services.NewIdentityService(documents)
	squadService := services.NewSquadService(documents, cfg.Factions)
	collectionService := services.NewCollectionService(documents)

	authHandler := handlers.NewAuthHandler(cfg, identityService, jwtService)
	squadHandler := handlers.NewSquadHandler(squadService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	auth := app.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)
	auth.Get("/logout", authHandler.Logout)

	app.Get("/methods", authHandler.Methods)

	// Public all-squads view.
	app.Get("/all", squadHandler.ListAll)

	protected := app.Group("")
	protected.Use(authmw.Auth(jwtService, identityService))

	protected.Get("/whoami", authHandler.Whoami)

	protected.Get("/squads/list", squadHandler.ListMine)
	protected.Put("/squads/new", squadHandler.Create)
	protected.Post("/squads/namecheck", squadHandler.NameCheck)
	protected.Post("/squads/:id", squadHandler.Update)
	protected.Delete("/squads/:id", squadHandler.Delete)

	protected.Get("/collection", collectionHandler.Get)
	protected.Post("/collection", collectionHandler.Update)

	app.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Server starting on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
}
