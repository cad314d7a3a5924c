package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/application/auth"
	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/application/seed"
	"github.com/jhoicas/sweetshop-api/internal/application/usecase"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/idempotency"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/sweetshop-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sweetshop-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sweetshop-api/internal/interfaces/http"
	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
	"github.com/jhoicas/sweetshop-api/pkg/metrics"

	_ "github.com/jhoicas/sweetshop-api/docs"
)

// @title                       Sweet Shop API
// @version                     1.0
// @description                 Catálogo de dulces, compras con descuento atómico de stock y reabastecimiento.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Msg("iniciando aplicación")

	// Precios como números JSON, no strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	var (
		userRepo     repository.UserRepository
		sweetRepo    repository.SweetRepository
		purchaseRepo repository.PurchaseRepository
		txRunner     inventory.TxRunner
	)
	switch cfg.DB.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		userRepo = memory.NewUserRepository(store)
		sweetRepo = memory.NewSweetRepository(store)
		purchaseRepo = memory.NewPurchaseRepository(store)
		txRunner = memory.NewTxRunner(store)
		// Sin persistencia: se arranca con el catálogo de ejemplo.
		if _, err := seed.Run(ctx, sweetRepo, userRepo, seed.Admin{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			Name:     cfg.Seed.AdminName,
		}, log); err != nil {
			log.Fatal().Err(err).Msg("cargar datos de ejemplo")
		}
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if _, err := postgres.Migrate(ctx, pool, log); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		userRepo = postgres.NewUserRepository(pool)
		sweetRepo = postgres.NewSweetRepository(pool)
		purchaseRepo = postgres.NewPurchaseRepository(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	// Idempotency-Key: Redis si está configurado, si no un mapa por proceso.
	var idemStore inventory.IdempotencyStore = idempotency.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		idemStore = idempotency.NewRedisStore(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotencia en Redis")
	}

	m := metrics.New()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo)
	sweetUC := usecase.NewSweetUseCase(sweetRepo, log)
	inventoryUC := inventory.NewUseCase(txRunner, sweetRepo, purchaseRepo, userRepo, log,
		inventory.WithIdempotency(idemStore, cfg.Redis.IdempotencyTTL),
		inventory.WithObserver(m),
		inventory.WithReceipts(infrapdf.NewReceiptGenerator("Sweet Shop")),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + httpRouter.HeaderIdempotencyKey,
	}))
	app.Use(httpRouter.RequestLogger(log, m))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Swagger.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Swagger.FilePath,
			Path:     "docs",
			Title:    "Sweet Shop API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		SweetUC:     sweetUC,
		InventoryUC: inventoryUC,
		JWTSecret:   cfg.JWT.Secret,
		Log:         log,
	})

	// Build del SPA: archivos estáticos y fallback a index.html fuera de /api.
	if dir := cfg.HTTP.StaticDir; dir != "" {
		app.Static("/", dir)
		index := filepath.Join(dir, "index.html")
		app.Get("*", func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/") {
				return fiber.ErrNotFound
			}
			return c.SendFile(index)
		})
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
