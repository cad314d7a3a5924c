// seed carga el catálogo de ejemplo y la cuenta administradora (SEED_ADMIN_EMAIL,
// SEED_ADMIN_PASSWORD) en PostgreSQL. Es seguro ejecutarlo varias veces.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/seed"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	res, err := seed.Run(ctx,
		postgres.NewSweetRepository(pool),
		postgres.NewUserRepository(pool),
		seed.Admin{Email: cfg.Seed.AdminEmail, Password: cfg.Seed.AdminPassword, Name: cfg.Seed.AdminName},
		log,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	if cfg.Seed.AdminEmail == "" {
		log.Warn().Msg("SEED_ADMIN_EMAIL vacío: no se creó cuenta administradora")
	}
	log.Info().
		Int("sweets_created", res.SweetsCreated).
		Int("sweets_skipped", res.SweetsSkipped).
		Bool("admin_created", res.AdminCreated).
		Msg("seed completado")
}
