// Package bootstrap arma los adaptadores de persistencia según DB_DRIVER,
// compartido por cmd/api y cmd/seed.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/postgres"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/sqlstore"
	"github.com/Chars502/ferreteria-kairos/pkg/config"
)

// Storage repositorios fuera de transacción más el TxRunner del driver elegido.
// TxRunner satisface tanto sales.TxRunner como catalog.TxRunner.
type Storage struct {
	Driver   string
	Products repository.ProductRepository
	Sales    repository.SaleRepository
	Users    repository.UserRepository
	TxRunner sales.TxRunner
	Close    func()
}

// OpenStorage conecta con la base configurada y aplica el esquema.
func OpenStorage(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Storage{
			Driver:   cfg.Driver,
			Products: postgres.NewProductRepository(pool),
			Sales:    postgres.NewSaleRepository(pool),
			Users:    postgres.NewUserRepository(pool),
			TxRunner: postgres.NewTxRunner(pool),
			Close:    pool.Close,
		}, nil

	case config.DriverMySQL, config.DriverSQLite:
		dialect, dsn := sqlstore.DialectMySQL, cfg.MySQLDSN
		if cfg.Driver == config.DriverSQLite {
			dialect, dsn = sqlstore.DialectSQLite, sqlstore.SQLiteDSN(cfg.SQLitePath)
		}
		db, err := sqlstore.Open(ctx, dialect, dsn)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Driver:   cfg.Driver,
			Products: sqlstore.NewProductRepository(db),
			Sales:    sqlstore.NewSaleRepository(db),
			Users:    sqlstore.NewUserRepository(db),
			TxRunner: sqlstore.NewTxRunner(db),
			Close:    func() { _ = db.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &Storage{
			Driver:   cfg.Driver,
			Products: store.Products(),
			Sales:    store.Sales(),
			Users:    store.Users(),
			TxRunner: memory.NewTxRunner(store),
			Close:    func() {},
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido %q", cfg.Driver)
}
