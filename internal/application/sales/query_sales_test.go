package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
)

func TestParseDateBound(t *testing.T) {
	from, err := sales.ParseDateBound("2024-03-02", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *from)

	to, err := sales.ParseDateBound("2024-03-02", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 23, 59, 59, 999999000, time.UTC), *to)

	exact, err := sales.ParseDateBound("2024-03-02T10:00:00-05:00", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC), *exact)

	none, err := sales.ParseDateBound("  ", false)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = sales.ParseDateBound("02/03/2024", false)
	assert.Error(t, err)
}

func TestQuerySales_FiltraInclusivoYUsaPrecioCapturado(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "hammer", Name: "Hammer", Brand: "BrandX", Unit: entity.UnitCount,
		Quantity: d("10"), PurchasePrice: d("1"), SalePrice: d("9"),
	}))
	at := func(day, hour int) time.Time { return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC) }
	for i, when := range []time.Time{at(1, 23), at(2, 0), at(2, 23), at(3, 0)} {
		id := string(rune('a' + i))
		require.NoError(t, store.Sales().Append(ctx,
			&entity.Sale{ID: id, UserID: "u-1", Total: d("5"), CreatedAt: when},
			[]*entity.SaleLine{{ID: id + "1", SaleID: id, LineNo: 1, ProductID: "hammer", Quantity: d("1"), UnitPrice: d("5"), LineTotal: d("5")}}))
	}

	uc := sales.NewQuerySalesUseCase(store.Sales())
	rows, err := uc.Query(ctx, dto.SalesQuery{From: "2024-03-02", To: "2024-03-02"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].SaleID)
	assert.Equal(t, "c", rows[1].SaleID)
	assert.True(t, rows[0].UnitPrice.Equal(d("5")), "usa el precio de la línea, no el vigente")
	assert.Equal(t, "Hammer", rows[0].ProductName)
	assert.True(t, rows[0].PurchasePrice.Equal(d("1")))

	all, err := uc.Query(ctx, dto.SalesQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestQuerySales_RangoInvalido(t *testing.T) {
	uc := sales.NewQuerySalesUseCase(memory.NewStore().Sales())

	_, err := uc.Query(context.Background(), dto.SalesQuery{From: "2024-03-05", To: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Query(context.Background(), dto.SalesQuery{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
