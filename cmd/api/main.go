package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/Chars502/ferreteria-kairos/internal/application/auth"
	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
	"github.com/Chars502/ferreteria-kairos/internal/application/inventory"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/bootstrap"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
	infrapdf "github.com/Chars502/ferreteria-kairos/internal/infrastructure/pdf"
	infraredis "github.com/Chars502/ferreteria-kairos/internal/infrastructure/redis"
	httpRouter "github.com/Chars502/ferreteria-kairos/internal/interfaces/http"
	"github.com/Chars502/ferreteria-kairos/pkg/config"
	"github.com/Chars502/ferreteria-kairos/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg.DB, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer storage.Close()

	// Idempotency-Key: Redis si está configurado, si no en proceso.
	var idemStore idempotency.Store = memory.NewIdempotencyStore(cfg.Redis.IdempotencyTTL)
	if cfg.Redis.Enabled() {
		client, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		idemStore = infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
	}

	authUC := auth.NewAuthUseCase(storage.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	upsertUC := catalog.NewUpsertProductUseCase(storage.TxRunner, log.Zerolog())
	listUC := catalog.NewListProductsUseCase(storage.Products)
	replenishUC := inventory.NewReplenishmentUseCase(storage.Products, storage.Sales)
	processSaleUC := sales.NewProcessSaleUseCase(storage.TxRunner, sales.Options{
		TxTimeout: cfg.Sales.TxTimeout,
		MaxLines:  cfg.Sales.MaxLines,
	}, log.Zerolog())
	querySalesUC := sales.NewQuerySalesUseCase(storage.Sales)
	receiptUC := sales.NewReceiptUseCase(
		storage.Sales, storage.Products, storage.Users,
		infrapdf.NewMarotoReceiptGenerator(), cfg.App.Name,
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, log.Component("http"))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Ferretería Kairos API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		UpsertUC:     upsertUC,
		ListUC:       listUC,
		Replenish:    replenishUC,
		ProcessSale:  processSaleUC,
		QuerySales:   querySalesUC,
		Receipt:      receiptUC,
		Idempotency:  idemStore,
		JWTSecret:    cfg.JWT.Secret,
		ProtectReads: cfg.HTTP.ProtectReads,
		Log:          log.Component("http"),
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
