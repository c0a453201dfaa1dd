package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nail(qty, purchase, sale string) dto.UpsertProductRequest {
	return dto.UpsertProductRequest{
		Name: "Nail", Brand: "BrandY", Unit: "count",
		Quantity: d(qty), PurchasePrice: d(purchase), SalePrice: d(sale),
	}
}

func TestUpsert_CreaYLuegoRepone(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())
	ctx := context.Background()

	p, created, err := uc.Upsert(ctx, nail("100", "0.05", "0.10"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, p.Quantity.Equal(d("100")))

	again, created, err := uc.Upsert(ctx, nail("50", "0.06", "0.12"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)
	assert.True(t, again.Quantity.Equal(d("150")))
	assert.True(t, again.PurchasePrice.Equal(d("0.06")))
	assert.True(t, again.SalePrice.Equal(d("0.12")))

	stored, err := store.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Quantity.Equal(d("150")))
}

func TestUpsert_NormalizaEspacios(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())

	in := nail("1", "1", "2")
	in.Name, in.Brand, in.Unit = "  Nail ", " BrandY", " COUNT "
	p, _, err := uc.Upsert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "Nail", p.Name)
	assert.Equal(t, "BrandY", p.Brand)
	assert.Equal(t, entity.UnitCount, p.Unit)
}

func TestUpsert_Validacion(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())

	mutate := []struct {
		name string
		fn   func(*dto.UpsertProductRequest)
	}{
		{"sin nombre", func(r *dto.UpsertProductRequest) { r.Name = "" }},
		{"sin marca", func(r *dto.UpsertProductRequest) { r.Brand = " " }},
		{"sin unidad", func(r *dto.UpsertProductRequest) { r.Unit = "" }},
		{"unidad desconocida", func(r *dto.UpsertProductRequest) { r.Unit = "kg" }},
		{"cantidad cero", func(r *dto.UpsertProductRequest) { r.Quantity = decimal.Zero }},
		{"fracción en conteo", func(r *dto.UpsertProductRequest) { r.Quantity = d("1.5") }},
		{"cuatro decimales en área", func(r *dto.UpsertProductRequest) {
			r.Unit = entity.UnitArea
			r.Quantity = d("0.0004")
		}},
		{"compra cero", func(r *dto.UpsertProductRequest) { r.PurchasePrice = decimal.Zero }},
		{"compra con tres decimales", func(r *dto.UpsertProductRequest) { r.PurchasePrice = d("1.005") }},
		{"venta negativa", func(r *dto.UpsertProductRequest) { r.SalePrice = d("-1") }},
		{"venta con tres decimales", func(r *dto.UpsertProductRequest) { r.SalePrice = d("2.999") }},
	}
	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			in := nail("10", "1", "2")
			tc.fn(&in)
			_, _, err := uc.Upsert(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	list, err := store.Products().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpsert_AreaAdmiteDecimales(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())

	in := dto.UpsertProductRequest{Name: "Tile", Brand: "Cerámica", Unit: "area",
		Quantity: d("12.75"), PurchasePrice: d("10"), SalePrice: d("15")}
	p, created, err := uc.Upsert(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, p.Quantity.Equal(d("12.75")))

	// Pasar a conteo con stock fraccionario no es posible.
	in.Unit, in.Quantity = "count", d("1")
	_, _, err = uc.Upsert(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// racingRunner simula que otro alta insertó el mismo (name, brand) entre la lectura y el insert.
type racingRunner struct {
	inner catalog.TxRunner
	races int
}

type blindProducts struct {
	repository.ProductRepository
}

func (blindProducts) GetByNameAndBrandForUpdate(context.Context, string, string) (*entity.Product, error) {
	return nil, nil
}

func (r *racingRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.SaleRepository) error) error {
	return r.inner.Run(ctx, func(pr repository.ProductRepository, sr repository.SaleRepository) error {
		if r.races > 0 {
			r.races--
			return fn(blindProducts{pr}, sr)
		}
		return fn(pr, sr)
	})
}

func TestUpsert_ReintentaUnaVezTrasCarrera(t *testing.T) {
	store := memory.NewStore()
	base := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())
	_, _, err := base.Upsert(context.Background(), nail("100", "1", "2"))
	require.NoError(t, err)

	uc := catalog.NewUpsertProductUseCase(&racingRunner{inner: memory.NewTxRunner(store), races: 1}, zerolog.Nop())
	p, created, err := uc.Upsert(context.Background(), nail("5", "1", "2"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, p.Quantity.Equal(d("105")))

	twice := catalog.NewUpsertProductUseCase(&racingRunner{inner: memory.NewTxRunner(store), races: 2}, zerolog.Nop())
	_, _, err = twice.Upsert(context.Background(), nail("5", "1", "2"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpsert_ConcurrenteSumaTodo(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := uc.Upsert(context.Background(), nail("10", "1", "2"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := catalog.NewListProductsUseCase(store.Products()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Quantity.Equal(d("100")))
}
