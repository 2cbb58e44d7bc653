package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"adrewards-bot-backend/internal/bot"
	"adrewards-bot-backend/internal/common/config"
	"adrewards-bot-backend/internal/common/logger"
	"adrewards-bot-backend/internal/dedup"
	apphttp "adrewards-bot-backend/internal/http"
	ledgerpg "adrewards-bot-backend/internal/ledger/postgres"
	"adrewards-bot-backend/internal/platform/db"
	redisplatform "adrewards-bot-backend/internal/platform/redis"
	"adrewards-bot-backend/internal/platform/telegram"

	"github.com/gin-gonic/gin"
)

func main() {
	// Create cancellable root context for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init("adrewards-bot", cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	pg, err := db.Open(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Postgres open failed")
	}
	defer pg.Close()

	if cfg.Database.AutoMigrate {
		if err := ledgerpg.Migrate(ctx, pg); err != nil {
			logger.Fatal().Err(err).Msg("Migration failed")
		}
	}

	rdb, err := redisplatform.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Redis open failed")
	}
	defer rdb.Close()

	api, err := telegram.New(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Telegram client init failed")
	}

	store := ledgerpg.NewRepository(pg)
	composer := bot.NewComposer(cfg.Rewards.AdReward, cfg.Rewards.MinWithdrawal, cfg.Rewards.AdURL)
	handler := bot.NewHandler(store, api, composer)
	deduper := dedup.NewRedisDeduper(rdb, 24*time.Hour)

	router := apphttp.NewRouter(cfg, api, handler, deduper)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}
	logger.Info().Msg("Server stopped")
}
