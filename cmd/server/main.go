package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sautipay/internal/config"
	"sautipay/internal/currency"
	"sautipay/internal/handlers"
	"sautipay/internal/logging"
	"sautipay/internal/notify"
	"sautipay/internal/services"
	"sautipay/internal/settlement"
	"sautipay/internal/store"
	"sautipay/internal/websocket"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.IsDevelopment())

	rates, err := currency.NewTable(currency.DefaultRates())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load exchange rates")
	}
	repo, err := store.NewMemory(rates, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to seed repository")
	}

	hub := websocket.NewHub()
	notifier := notify.New(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailSender, logger)
	payments := services.NewPaymentService(repo, notifier, hub, cfg.SettlementThreshold, cfg.IdempotencyTTL, logger)
	watcher := settlement.NewWatcher(repo, hub, cfg.SettlementThreshold, cfg.SettlementInterval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go watcher.Run(ctx)

	handler := handlers.New(cfg, repo, rates, payments, notifier, watcher, hub, logger)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Msg("sauti pay API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("shutdown error")
	}
}
