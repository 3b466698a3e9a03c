package main

import (
	"context"   // Shutdown deadlines and Redis operations
	"errors"    // Server error matching
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts and ticker

	"auction_system/internal/api"     // HTTP handlers and routes
	"auction_system/internal/auth"    // Token service and password hasher
	"auction_system/internal/config"  // Configuration
	"auction_system/internal/db"      // Storage handle
	"auction_system/internal/events"  // Websocket event hub
	"auction_system/internal/service" // Business services
	"auction_system/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/go-chi/cors"       // CORS middleware
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode) // Set Mode to Release if in production
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database and bring the schema up to date
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}
	store := db.NewStore(gdb)
	defer store.Close()

	// Setup Redis client when configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logrus.Info("REDIS_ADDR not set, users cache disabled")
	}

	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTokenTTL)
	if err != nil {
		logrus.Fatalf("failed to set up token service: %v", err)
	}
	hub := events.NewHub()
	cache := utils.NewCache(redisClient, cfg.CacheTTL)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	auctions := service.NewAuctionService(store, hub)

	router := api.NewRouter(api.Deps{
		Store:        store,
		Tokens:       tokens,
		Users:        service.NewUserService(store, hasher, cache),
		BankAccounts: service.NewBankAccountService(store),
		Referrals:    service.NewReferralService(store),
		Auctions:     auctions,
		Listings:     service.NewListingService(store, hub),
		Transactions: service.NewTransactionService(store, hub),
		Hub:          hub,
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go syncAuctionStatuses(ctx, auctions, cfg.AuctionSyncInterval)

	go func() {
		logrus.Infof("Server running on %s", srv.Addr) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("graceful shutdown failed: %v", err)
	}
}

// syncAuctionStatuses refreshes auction statuses until ctx is cancelled.
func syncAuctionStatuses(ctx context.Context, auctions *service.AuctionService, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := auctions.SyncStatuses(ctx, now)
			if err != nil {
				logrus.WithError(err).Error("Auction status sync failed")
				continue
			}
			if n > 0 {
				logrus.WithField("changed", n).Info("Auction statuses synced")
			}
		}
	}
}
