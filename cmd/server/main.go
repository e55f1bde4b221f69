package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starcoach/internal/config"
	"starcoach/internal/database"
	"starcoach/internal/handlers"
	"starcoach/internal/insights"
	"starcoach/internal/repository"
	"starcoach/internal/security"
	"starcoach/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Seed the behavior catalogue
	if err := db.SeedDefaultBehaviors(); err != nil {
		log.Printf("Warning: Failed to seed default behaviors: %v", err)
	}

	// Initialize repositories
	childRepo := repository.NewChildRepository(db)
	eventRepo := repository.NewEventRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	behaviorRepo := repository.NewBehaviorRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	// Initialize services
	trackingService := service.NewTrackingService(db, childRepo, eventRepo, goalRepo, behaviorRepo)
	provider := service.NewSQLProvider(childRepo, eventRepo, goalRepo, behaviorRepo)
	cooldowns := insights.NewCooldownStore(settingsRepo)
	coachService := service.NewCoachService(provider, cooldowns)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	tokenHandler := handlers.NewTokenHandler(cfg)
	childHandler := handlers.NewChildHandler(trackingService)
	eventHandler := handlers.NewEventHandler(trackingService)
	goalHandler := handlers.NewGoalHandler(trackingService)
	behaviorHandler := handlers.NewBehaviorHandler(trackingService)
	cardsHandler := handlers.NewCardsHandler(coachService)

	auth := func(h http.HandlerFunc) http.HandlerFunc {
		return handlers.RequireAuth(cfg.TokenSecret, h)
	}

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("POST /api/token", handlers.RateLimit(limiter, tokenHandler.IssueToken))

	// Children
	mux.HandleFunc("POST /api/children", auth(childHandler.CreateChild))
	mux.HandleFunc("GET /api/children", auth(childHandler.ListChildren))
	mux.HandleFunc("GET /api/children/{id}", auth(childHandler.GetChild))

	// Events and goals
	mux.HandleFunc("POST /api/children/{id}/events", auth(eventHandler.LogEvent))
	mux.HandleFunc("GET /api/children/{id}/events", auth(eventHandler.ListEvents))
	mux.HandleFunc("POST /api/children/{id}/goals", auth(goalHandler.CreateGoal))
	mux.HandleFunc("GET /api/children/{id}/goals", auth(goalHandler.ListGoals))

	// Behavior catalogue
	mux.HandleFunc("POST /api/behaviors", auth(behaviorHandler.CreateBehavior))
	mux.HandleFunc("GET /api/behaviors", auth(behaviorHandler.ListBehaviors))

	// Coaching cards
	mux.HandleFunc("GET /api/children/{id}/cards", auth(cardsHandler.GetCards))
	mux.HandleFunc("POST /api/children/{id}/cards/displayed", auth(cardsHandler.RecordDisplayed))
	mux.HandleFunc("GET /api/children/{id}/cards/debug", auth(cardsHandler.DebugReport))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
