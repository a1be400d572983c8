package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	accounthandler "copilot-auth/internal/account/handler"
	"copilot-auth/internal/account/repository"
	"copilot-auth/internal/account/service"
	"copilot-auth/internal/cache"
	"copilot-auth/internal/config"
	"copilot-auth/internal/db"
	healthhandler "copilot-auth/internal/health/handler"
	"copilot-auth/internal/mailer"
	"copilot-auth/internal/security"
	"copilot-auth/internal/server"
	"copilot-auth/internal/telemetry"
	otelsetup "copilot-auth/internal/telemetry/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx := context.Background()

	providers, err := otelsetup.NewProviders(ctx, cfg.OTLPEndpoint, "copilot-auth", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.OpenWithRetry(cfg.DatabaseURL, 5, 5*time.Second)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	store := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("redis: %v", err)
	}

	var verificationMailer service.VerificationMailer
	m, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Email:    cfg.SMTPEmail,
		Password: cfg.SMTPPassword,
	}, logger)
	if err != nil {
		// Registration still works without SMTP; codes land in Redis only.
		logger.Warn("mailer disabled", "error", err)
	} else {
		verificationMailer = m
	}

	repo := repository.NewPostgresRepository(conn)
	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenCodec(cfg.AuthSecretKey, cfg.AccessTTL(), cfg.RefreshTTL())
	emitter := otelsetup.NewEventEmitter(providers.LoggerProvider)

	authSvc := service.NewAuthService(repo, store, hasher, tokens, verificationMailer, emitter, logger, cfg.BaseURL)

	router := server.NewRouter(server.Deps{
		Auth:   accounthandler.NewAuthHandler(authSvc, logger),
		Health: healthhandler.NewServer(),
	})
	srv := server.New(cfg.HTTPAddr, router)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	if err := server.Shutdown(srv, 30*time.Second); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async telemetry emits finish before tearing providers down.
	time.Sleep(telemetry.ShutdownDrainDuration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
