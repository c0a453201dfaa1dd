package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestGenerateReplenishmentList(t *testing.T) {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ctx := context.Background()
	upsert := catalog.NewUpsertProductUseCase(tx, zerolog.Nop())

	add := func(name, unit, qty, buy, sell string) string {
		p, _, err := upsert.Upsert(ctx, dto.UpsertProductRequest{
			Name: name, Brand: "Acme", Unit: unit, Quantity: d(qty), PurchasePrice: d(buy), SalePrice: d(sell),
		})
		require.NoError(t, err)
		return p.ID
	}
	hammer := add("Hammer", "count", "6", "3", "5")    // margen 40%
	nail := add("Nail", "count", "10", "0.05", "0.10") // margen 50%
	tile := add("Tile", "area", "2.5", "1", "2")       // margen 50%
	add("Saw", "count", "100", "10", "20")             // con stock de sobra

	seller := sales.NewProcessSaleUseCase(tx, sales.Options{}, zerolog.Nop())
	_, err := seller.ProcessSale(ctx, "u1", dto.ProcessSaleRequest{Lines: []dto.SaleLineRequest{
		{ProductID: hammer, Quantity: d("3")},
		{ProductID: nail, Quantity: d("7")},
	}})
	require.NoError(t, err)

	uc := NewReplenishmentUseCase(store.Products(), store.Sales())
	out, err := uc.GenerateReplenishmentList(ctx, dto.ReplenishmentQuery{Threshold: "4"})
	require.NoError(t, err)
	require.Len(t, out, 3)

	// Nail y Tile empatan en margen; Nail vendió más.
	assert.Equal(t, nail, out[0].ProductID)
	assert.Equal(t, tile, out[1].ProductID)
	assert.Equal(t, hammer, out[2].ProductID)
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Priority, out[1].Priority, out[2].Priority})

	// ideal = 4 × 1.5 = 6
	assert.True(t, out[0].SuggestedOrderQty.Equal(d("3")), out[0].SuggestedOrderQty.String())
	assert.True(t, out[0].UnitsSold.Equal(d("7")))
	assert.True(t, out[1].SuggestedOrderQty.Equal(d("3.5")), "área admite decimales")
	assert.True(t, out[2].GrossMarginPct.Equal(d("40")))
	assert.True(t, out[2].EstimatedOrderCost.Equal(d("9")))
}

func TestGenerateReplenishmentList_VentasFueraDeVentana(t *testing.T) {
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	ctx := context.Background()
	p, _, err := catalog.NewUpsertProductUseCase(tx, zerolog.Nop()).Upsert(ctx, dto.UpsertProductRequest{
		Name: "Hammer", Brand: "Acme", Unit: "count", Quantity: d("5"), PurchasePrice: d("1"), SalePrice: d("2"),
	})
	require.NoError(t, err)
	_, err = sales.NewProcessSaleUseCase(tx, sales.Options{}, zerolog.Nop()).ProcessSale(ctx, "u1",
		dto.ProcessSaleRequest{Lines: []dto.SaleLineRequest{{ProductID: p.ID, Quantity: d("2")}}})
	require.NoError(t, err)

	uc := NewReplenishmentUseCase(store.Products(), store.Sales())
	uc.now = func() time.Time { return time.Now().AddDate(0, 0, 30) }

	out, err := uc.GenerateReplenishmentList(ctx, dto.ReplenishmentQuery{Days: 7})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].UnitsSold.IsZero())
}

func TestGenerateReplenishmentList_Validacion(t *testing.T) {
	uc := NewReplenishmentUseCase(memory.NewStore().Products(), memory.NewStore().Sales())
	for _, q := range []dto.ReplenishmentQuery{{Threshold: "-1"}, {Threshold: "abc"}, {Days: -3}, {Days: 1000}} {
		_, err := uc.GenerateReplenishmentList(context.Background(), q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", q)
	}
}

func TestGenerateReplenishmentList_SinProductosBajos(t *testing.T) {
	uc := NewReplenishmentUseCase(memory.NewStore().Products(), memory.NewStore().Sales())
	out, err := uc.GenerateReplenishmentList(context.Background(), dto.ReplenishmentQuery{})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
