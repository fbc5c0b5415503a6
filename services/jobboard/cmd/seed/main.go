// Command seed provisions the administrator account and sample jobs. The API
// has no endpoint that grants the admin role.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	pkgconfig "github.com/utafrali/JobPortal/pkg/config"
	"github.com/utafrali/JobPortal/pkg/database"
	"github.com/utafrali/JobPortal/pkg/logger"
	"github.com/utafrali/JobPortal/services/jobboard/internal/app"
	"github.com/utafrali/JobPortal/services/jobboard/internal/auth"
	"github.com/utafrali/JobPortal/services/jobboard/internal/config"
	"github.com/utafrali/JobPortal/services/jobboard/internal/repository/postgres"
	"github.com/utafrali/JobPortal/services/jobboard/migrations"
)

type seedConfig struct {
	config.Config

	AdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@jobboard.local"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

func main() {
	var cfg seedConfig
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("jobboard-seed", cfg.LogLevel)
	if err := run(&cfg, log); err != nil {
		log.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete")
}

func run(cfg *seedConfig, log *slog.Logger) error {
	if len(cfg.AdminPassword) < 6 {
		return errors.New("SEED_ADMIN_PASSWORD must be set to at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		return err
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}

	return app.Seed(ctx,
		postgres.NewUserRepository(pool, nil),
		postgres.NewJobRepository(pool, nil),
		hasher,
		app.AdminAccount{Email: cfg.AdminEmail, Password: cfg.AdminPassword},
		log,
	)
}
