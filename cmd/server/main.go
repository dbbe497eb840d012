package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsletter/internal/email"
	"newsletter/internal/platform/config"
	"newsletter/internal/platform/httpserver"
	"newsletter/internal/platform/logger"
	"newsletter/internal/platform/metrics"
	subscriptionhandler "newsletter/internal/subscription/handler"
	subscriptionservice "newsletter/internal/subscription/service"
	subscriptionstore "newsletter/internal/subscription/store"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("could not open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := subscriptionstore.RunMigrations(ctx, db); err != nil {
		log.Error("could not run migrations", "error", err.Error())
		os.Exit(1)
	}

	var sender email.Sender
	if cfg.Email.AccessKey != "" {
		sesSender, err := email.NewSESSender(ctx, cfg.Email.AccessKey, cfg.Email.SecretKey, cfg.Email.Region, cfg.Email.From)
		if err != nil {
			log.Error("could not build SES sender", "error", err.Error())
			os.Exit(1)
		}
		sender = sesSender
	} else {
		log.Warn("no SES credentials configured, logging outbound mail instead")
		sender = email.NewLogSender(log)
	}

	m := metrics.New()
	store := subscriptionstore.NewPostgres(db)
	svc := subscriptionservice.New(store, newSubscriptionPostgresTx(db), sender, log, m, cfg.BaseURL, cfg.Email.Subject)

	router := chi.NewRouter()
	subscriptionhandler.New(svc, log, m).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting newsletter server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}
