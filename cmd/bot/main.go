package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wortwallet/internal/config"
	"wortwallet/internal/handler"
	"wortwallet/internal/middleware"
	"wortwallet/internal/repository/postgres"
	"wortwallet/internal/search"
	"wortwallet/internal/service"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting WortWallet Bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully")

	// Connect to database with retries
	db, err := connectDatabase(cfg.DSN(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	// Run migrations
	if err := runMigrations(db, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Database migrations completed")

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	walletRepo := postgres.NewWalletRepo(db)
	deckRepo := postgres.NewDeckRepo(db)
	snapshotRepo := postgres.NewSnapshotRepo(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.BotPassword)
	walletService := service.NewWalletService(walletRepo, search.NewFuzzy(), logger)
	deckService := service.NewDeckService(deckRepo, logger)
	consistencyService := service.NewConsistencyService(walletService, deckService, logger)
	challengeService := service.NewChallengeService(deckService, logger)
	maintenanceService := service.NewMaintenanceService(snapshotRepo, logger)

	// Hydrate in-memory state from the latest snapshots
	if err := walletService.Load(); err != nil {
		logger.Fatal("Failed to load wallet", zap.Error(err))
	}
	if err := deckService.Load(); err != nil {
		logger.Fatal("Failed to load decks", zap.Error(err))
	}

	logger.Info("Wallet and decks loaded")

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	bot.Use(middleware.AuthMiddleware(authService, logger))

	// Initialize handler
	h := handler.NewHandler(bot, authService, walletService, deckService, consistencyService, challengeService, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start snapshot pruning job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runPruneJob(ctx, maintenanceService, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		// Connection successful
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runPruneJob periodically trims old snapshot rows
func runPruneJob(ctx context.Context, maintenance *service.MaintenanceService, logger *zap.Logger) {
	// Run once at startup
	if err := maintenance.PruneOldSnapshots(); err != nil {
		logger.Error("Failed to run initial snapshot prune", zap.Error(err))
	}

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Snapshot prune job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled snapshot prune")
			if err := maintenance.PruneOldSnapshots(); err != nil {
				logger.Error("Failed to run scheduled snapshot prune", zap.Error(err))
			}
		}
	}
}
