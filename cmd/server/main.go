package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mockcrypto/mockcrypto-backend/internal/adapter/coingecko"
	"github.com/mockcrypto/mockcrypto-backend/internal/adapter/httpapi"
	"github.com/mockcrypto/mockcrypto-backend/internal/adapter/repository/memory"
	"github.com/mockcrypto/mockcrypto-backend/internal/adapter/repository/sqlite"
	"github.com/mockcrypto/mockcrypto-backend/internal/config"
	"github.com/mockcrypto/mockcrypto-backend/internal/scheduler"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/market"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/portfolio"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/profile"
	"github.com/mockcrypto/mockcrypto-backend/internal/usecase/trading"
	"github.com/mockcrypto/mockcrypto-backend/pkg/logger"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		errLog := logger.New(logger.Config{Level: "error"})
		errLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.DevMode})
	logger.SetGlobalLogger(log)

	// 2. Database
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// 3. Repositories and gateways
	portfolioRepo := sqlite.NewPortfolioRepository(db, cfg.InitialBalance)
	settingsRepo := sqlite.NewSettingsRepository(db)
	userRepo := memory.NewUserRepository()

	clientOpts := []coingecko.Option{}
	if cfg.CoinGeckoBaseURL != "" {
		clientOpts = append(clientOpts, coingecko.WithBaseURL(cfg.CoinGeckoBaseURL))
	}
	if cfg.CoinGeckoAPIKey != "" {
		clientOpts = append(clientOpts, coingecko.WithAPIKey(cfg.CoinGeckoAPIKey))
	}
	marketData := coingecko.NewClient(log, clientOpts...)

	// 4. Services
	marketService := market.NewMarketService(marketData, log)
	tradingService := trading.NewTradingService(portfolioRepo, log)
	portfolioService := portfolio.NewPortfolioService(portfolioRepo, marketData, cfg.InitialBalance, log)
	profileService := profile.NewProfileService(userRepo, settingsRepo, portfolioService, log)

	// 5. Background quote refresh
	sched := scheduler.New(log)
	refreshJob := scheduler.NewQuoteRefreshJob(marketData, portfolioRepo, cfg.MarketPageSize, log)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register quote refresh job")
	}
	sched.Start()
	defer sched.Stop()

	// 6. HTTP server
	handlers := httpapi.NewHandlers(marketService, tradingService, portfolioService, profileService)
	server := httpapi.New(httpapi.Config{
		Port:     cfg.Port,
		APIToken: cfg.APIToken,
		DevMode:  cfg.DevMode,
		Log:      log,
	}, handlers)

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown failed")
	}
}
