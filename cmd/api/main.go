package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/mercado-stock/internal/application/allocation"
	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/application/auth"
	"github.com/tu-usuario/mercado-stock/internal/application/catalog"
	"github.com/tu-usuario/mercado-stock/internal/application/order"
	"github.com/tu-usuario/mercado-stock/internal/application/stock"
	"github.com/tu-usuario/mercado-stock/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/mercado-stock/internal/interfaces/http"
	"github.com/tu-usuario/mercado-stock/internal/scheduler"
	"github.com/tu-usuario/mercado-stock/pkg/config"
	"github.com/tu-usuario/mercado-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	shopRepo := postgres.NewShopRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	allocRepo := postgres.NewAllocationRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, shopRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewUseCase(shopRepo, productRepo)
	stockUC := stock.NewMutatorUseCase(txRunner, stockRepo, movRepo, productRepo)
	allocUC := allocation.NewUseCase(txRunner, allocRepo, productRepo, userRepo)
	orderUC := order.NewReconcilerUseCase(txRunner, allocUC, orderRepo, productRepo, userRepo)
	checkerUC := audit.NewCheckerUseCase(stockRepo, allocRepo, orderRepo, movRepo)

	// Auditor de conservación en background (barrido periódico de SKUs)
	if cfg.Audit.Enabled {
		auditor := scheduler.NewAuditor(checkerUC, shopRepo, productRepo, cfg.Audit.Schedule, log)
		if err := auditor.Start(); err != nil {
			log.Fatal().Err(err).Msg("agendar auditor de conservación")
		}
		defer auditor.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Mercado Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		CatalogUC: catalogUC,
		StockUC:   stockUC,
		AllocUC:   allocUC,
		OrderUC:   orderUC,
		CheckerUC: checkerUC,
		JWTSecret: cfg.JWT.Secret,
	})

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
