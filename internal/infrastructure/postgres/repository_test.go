package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/postgres"
	"github.com/Chars502/ferreteria-kairos/pkg/config"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// newTestPool se conecta a TEST_DATABASE_URL y deja las tablas vacías; sin la variable, el test se omite.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	if err != nil {
		t.Skipf("postgres no disponible: %v", err)
	}
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE sale_lines, sales, products, users`)
	require.NoError(t, err)
	return pool
}

func insertProduct(t *testing.T, pool *pgxpool.Pool, id, qty string) {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, postgres.NewProductRepository(pool).Create(context.Background(), &entity.Product{
		ID: id, Name: "Producto " + id, Brand: "BrandX", Unit: entity.UnitCount,
		Quantity: d(qty), PurchasePrice: d("3"), SalePrice: d("5"), CreatedAt: now, UpdatedAt: now,
	}))
}

func TestProductRepo_CreateYDecrement(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewProductRepository(pool)
	insertProduct(t, pool, "p1", "10")

	err := repo.Create(ctx, &entity.Product{ID: "p2", Name: "Producto p1", Brand: "BrandX", Unit: "count",
		Quantity: d("1"), PurchasePrice: d("1"), SalePrice: d("1")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := repo.DecrementStock(ctx, "p1", d("4"))
	require.NoError(t, err)
	assert.True(t, p.Quantity.Equal(d("6")))

	_, err = repo.DecrementStock(ctx, "p1", d("7"))
	var is *domain.InsufficientStockError
	require.ErrorAs(t, err, &is)
	assert.True(t, is.Available.Equal(d("6")))

	_, err = repo.DecrementStock(ctx, "ghost", d("1"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestTxRunner_RollbackCompleto(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	insertProduct(t, pool, "p1", "10")
	boom := errors.New("boom")

	err := postgres.NewTxRunner(pool).Run(ctx, func(pr repository.ProductRepository, sr repository.SaleRepository) error {
		if _, err := pr.DecrementStock(ctx, "p1", d("2")); err != nil {
			return err
		}
		if err := sr.Append(ctx, &entity.Sale{ID: "s1", UserID: "u", Total: d("10"), CreatedAt: time.Now().UTC()},
			[]*entity.SaleLine{{ID: "l1", SaleID: "s1", LineNo: 1, ProductID: "p1", Quantity: d("2"), UnitPrice: d("5"), LineTotal: d("10")}}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := postgres.NewProductRepository(pool).GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, p.Quantity.Equal(d("10")))
	s, err := postgres.NewSaleRepository(pool).GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestProcessSale_ConcurrenciaConBloqueoDeFilas(t *testing.T) {
	pool := newTestPool(t)
	insertProduct(t, pool, "p1", "10")
	uc := sales.NewProcessSaleUseCase(postgres.NewTxRunner(pool), sales.Options{}, zerolog.Nop())

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := decimal.Zero
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.ProcessSale(context.Background(), "u-1",
				dto.ProcessSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: "p1", Quantity: d("3")}}})
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				return
			}
			mu.Lock()
			sold = sold.Add(res.Lines[0].Quantity)
			mu.Unlock()
		}()
	}
	wg.Wait()

	p, err := postgres.NewProductRepository(pool).GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, sold.Equal(d("9")))
	assert.True(t, p.Quantity.Equal(d("1")))
}

func TestSaleRepo_QueryRango(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	insertProduct(t, pool, "p1", "10")
	repo := postgres.NewSaleRepository(pool)
	at := func(day int) time.Time { return time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC) }
	for i, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, repo.Append(ctx, &entity.Sale{ID: id, UserID: "u", Total: d("5"), CreatedAt: at(i + 1)},
			[]*entity.SaleLine{{ID: id + "l", SaleID: id, LineNo: 1, ProductID: "p1", Quantity: d("1"), UnitPrice: d("5"), LineTotal: d("5")}}))
	}

	from, to := at(2), at(3)
	rows, err := repo.Query(ctx, &from, &to)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "s2", rows[0].SaleID)
	assert.Equal(t, "Producto p1", rows[0].ProductName)
	assert.True(t, rows[0].PurchasePrice.Equal(d("3")))

	all, err := repo.Query(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaleRepo_QueryRangoImportesConCincoDecimales(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, postgres.NewProductRepository(pool).Create(ctx, &entity.Product{
		ID: "tile", Name: "Tile", Brand: "BrandX", Unit: entity.UnitArea,
		Quantity: d("7"), PurchasePrice: d("0.20"), SalePrice: d("0.33"), CreatedAt: now, UpdatedAt: now,
	}))
	uc := sales.NewProcessSaleUseCase(postgres.NewTxRunner(pool), sales.Options{}, zerolog.Nop())

	res, err := uc.ProcessSale(ctx, "u-1", dto.ProcessSaleRequest{Lines: []dto.SaleLineRequest{
		{ProductID: "tile", Quantity: d("1.5")},
		{ProductID: "tile", Quantity: d("1.5")},
	}})
	require.NoError(t, err)

	rows, err := postgres.NewSaleRepository(pool).Query(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	sum := decimal.Zero
	for _, r := range rows {
		assert.Equal(t, res.SaleID, r.SaleID)
		assert.True(t, r.LineTotal.Equal(d("0.495")), "línea guardada %s", r.LineTotal)
		sum = sum.Add(r.LineTotal)
	}
	assert.True(t, rows[0].SaleTotal.Equal(d("0.99")))
	assert.True(t, sum.Equal(rows[0].SaleTotal))
	assert.True(t, rows[0].PurchasePrice.Equal(d("0.2")))

	p, err := postgres.NewProductRepository(pool).GetByID(ctx, "tile")
	require.NoError(t, err)
	assert.True(t, p.Quantity.Equal(d("4")))
}
