// Command migrate applies the embedded schema migrations and exits. The
// server also migrates on start; this exists for deploy pipelines that
// migrate before rolling instances.
package main

import (
	"context"
	"database/sql"
	"os"

	_ "github.com/lib/pq"

	"newsletter/internal/platform/config"
	"newsletter/internal/platform/logger"
	subscriptionstore "newsletter/internal/subscription/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Error("could not open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := subscriptionstore.RunMigrations(context.Background(), db); err != nil {
		log.Error("could not run migrations", "error", err.Error())
		os.Exit(1)
	}
	log.Info("migrations applied")
}
