package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/appointly/bookingbot/internal/api/router"
	"github.com/appointly/bookingbot/internal/appointments"
	"github.com/appointly/bookingbot/internal/chatbot"
	appconfig "github.com/appointly/bookingbot/internal/config"
	"github.com/appointly/bookingbot/internal/directory"
	"github.com/appointly/bookingbot/internal/events"
	"github.com/appointly/bookingbot/internal/http/handlers"
	"github.com/appointly/bookingbot/internal/messaging"
	"github.com/appointly/bookingbot/internal/notify"
	"github.com/appointly/bookingbot/internal/observability/metrics"
	"github.com/appointly/bookingbot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting bookingbot API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to ping redis", "error", err)
		os.Exit(1)
	}

	botMetrics := metrics.NewBotMetrics(nil)

	usersRepo := directory.NewRepository(pool)
	apptsRepo := appointments.NewRepository(pool)
	processedStore := events.NewProcessedStore(pool)
	sessionStore := chatbot.NewRedisSessionStore(redisClient, nil)

	messenger := messaging.NewWhatsAppSender(
		cfg.WhatsAppToken,
		cfg.WhatsAppPhoneID,
		cfg.WhatsAppAPIBaseURL,
		cfg.SendTimeout,
		logger,
	)

	engineCfg := chatbot.Config{
		Sessions:     sessionStore,
		Users:        usersRepo,
		Appointments: apptsRepo,
		Messenger:    messenger,
		Metrics:      botMetrics,
		Logger:       logger,
	}
	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if notifier := notify.NewService(emailSender, logger); notifier != nil {
		engineCfg.Notifier = notifier
	}
	engine := chatbot.NewEngine(engineCfg)

	webhookHandler := handlers.NewWhatsAppWebhookHandler(cfg.WhatsAppVerifyToken, engine, processedStore, botMetrics, logger)
	apptsHandler := appointments.NewHandler(apptsRepo, logger)
	adminUsers := handlers.NewAdminUsersHandler(usersRepo, apptsRepo, logger)

	r := router.New(&router.Config{
		Logger:              logger,
		WhatsAppWebhook:     webhookHandler,
		AppointmentsHandler: apptsHandler,
		AdminUsersHandler:   adminUsers,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
