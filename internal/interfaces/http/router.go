package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/Chars502/ferreteria-kairos/internal/application/auth"
	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
	"github.com/Chars502/ferreteria-kairos/internal/application/inventory"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UpsertUC     *catalog.UpsertProductUseCase
	ListUC       *catalog.ListProductsUseCase
	Replenish    *inventory.ReplenishmentUseCase
	ProcessSale  *sales.ProcessSaleUseCase
	QuerySales   *sales.QuerySalesUseCase
	Receipt      *sales.ReceiptUseCase
	Idempotency  idempotency.Store // nil = sin Idempotency-Key
	JWTSecret    string
	ProtectReads bool
	Log          zerolog.Logger
}

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	CORSOrigins string
}

// NewApp crea la app Fiber con los middlewares comunes: recover, request id, access log y CORS.
func NewApp(cfg AppConfig, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(AccessLog(log))
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + HeaderIdempotencyKey,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)

	// Lecturas: públicas salvo ProtectReads.
	reads := []fiber.Handler{}
	if deps.ProtectReads {
		reads = append(reads, authMW)
	}
	withReads := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, reads...), h)
	}

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Users (solo admin)
	users := api.Group("/users", authMW, RequireRole(entity.RoleAdmin))
	users.Get("/", authHandler.ListUsers)
	users.Post("/", authHandler.CreateUser)

	// Products
	productHandler := NewProductHandler(deps.UpsertUC, deps.ListUC, deps.Replenish)
	api.Get("/products", withReads(productHandler.List)...)
	api.Post("/products", authMW, RequireRole(entity.RoleAdmin), productHandler.Upsert)
	api.Get("/products/replenishment", authMW, RequireRole(entity.RoleAdmin), productHandler.Replenishment)

	// Sales
	saleHandler := NewSaleHandler(deps.ProcessSale, deps.QuerySales, deps.Receipt)
	sellers := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	api.Get("/sales", withReads(saleHandler.List)...)
	api.Post("/sales", authMW, sellers, IdempotencyMiddleware(deps.Idempotency, deps.Log), saleHandler.Create)
	api.Get("/sales/:id/receipt", authMW, sellers, saleHandler.Receipt)
}
