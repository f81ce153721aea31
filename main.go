package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/api"
	"github.com/seid21/topia-estate-be/internal/auth"
	"github.com/seid21/topia-estate-be/internal/cache"
	"github.com/seid21/topia-estate-be/internal/config"
	"github.com/seid21/topia-estate-be/internal/database"
	"github.com/seid21/topia-estate-be/internal/jobs"
	"github.com/seid21/topia-estate-be/internal/logger"
	"github.com/seid21/topia-estate-be/internal/mail"
	"github.com/seid21/topia-estate-be/internal/services"
	"github.com/seid21/topia-estate-be/internal/websocket"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Fine in deployed environments; variables come from the process env.
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Listing cache is optional; the service degrades to plain queries.
	var listingCache *cache.Cache
	if cfg.RedisAddr != "" {
		listingCache, err = cache.New(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to redis")
		}
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokenAuth := auth.New(cfg.JWTSecret, cfg.TokenTTL)
	mailer := mail.New(cfg)
	userService := services.NewUserService(db)
	propertyService := services.NewPropertyService(db, listingCache)
	conversationService := services.NewConversationService(db)
	messageService := services.NewMessageService(db, conversationService, hub)

	// Set up and run the background maintenance loop
	maintenance, err := jobs.NewMaintenance(userService, cfg.CleanupSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure maintenance scheduler")
	}
	go maintenance.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Auth:           tokenAuth,
		Hub:            hub,
		Mailer:         mailer,
		Users:          userService,
		Properties:     propertyService,
		Conversations:  conversationService,
		Messages:       messageService,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	maintenance.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
