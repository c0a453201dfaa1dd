// seed carga el catálogo inicial desde un CSV pasando cada fila por el mismo
// alta/reposición que usa la API (name+brand existente suma stock).
//
// Uso: go run ./cmd/seed [-sep ';'] [-admin-email a@b.c -admin-password xxxxxxxx] productos.csv
//
// Columnas: name,brand,unit,quantity,purchase_price,sale_price (cabecera opcional).
// Acepta UTF-8 o ISO-8859-1 (exportaciones de Excel en español).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Chars502/ferreteria-kairos/internal/application/auth"
	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/bootstrap"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/pkg/config"
	"github.com/Chars502/ferreteria-kairos/pkg/logger"
)

func main() {
	sep := flag.String("sep", ",", "separador de columnas")
	adminEmail := flag.String("admin-email", "", "crea un usuario admin con este email")
	adminPassword := flag.String("admin-password", "", "password del admin (mínimo 8 caracteres)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg.DB, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer storage.Close()

	if *adminEmail != "" {
		authUC := auth.NewAuthUseCase(storage.Users, auth.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
		u, err := authUC.CreateUser(ctx, dto.CreateUserRequest{
			Name: "Administrador", Email: *adminEmail, Password: *adminPassword, Role: entity.RoleAdmin,
		})
		if err != nil {
			log.Error().Err(err).Str("email", *adminEmail).Msg("crear admin")
		} else {
			log.Info().Str("user_id", u.ID).Str("email", u.Email).Msg("admin creado")
		}
	}

	if flag.NArg() == 0 {
		if *adminEmail == "" {
			fmt.Fprintln(os.Stderr, "Uso: seed [flags] productos.csv")
			os.Exit(2)
		}
		return
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	rows, err := parseCSV(raw, *sep)
	if err != nil {
		log.Fatal().Err(err).Msg("parsear CSV")
	}

	upsertUC := catalog.NewUpsertProductUseCase(storage.TxRunner, log.Zerolog())
	res := seedProducts(ctx, upsertUC, rows)
	for _, e := range res.Errors {
		log.Warn().Err(e.Err).Int("line", e.Line).Msg("fila descartada")
	}
	log.Info().
		Int("created", res.Created).
		Int("restocked", res.Restocked).
		Int("failed", len(res.Errors)).
		Msg("carga de catálogo terminada")
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}
