package sqlstore_test

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/application/sales"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/sqlstore"
)

// openMySQL usa TEST_MYSQL_DSN; sin la variable o sin servidor el test se omite.
func openMySQL(t *testing.T) *sqlstore.DB {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN no definido")
	}
	db, err := sqlstore.Open(context.Background(), sqlstore.DialectMySQL, dsn)
	if err != nil {
		t.Skipf("MySQL no disponible: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	for _, table := range []string{"sale_lines", "sales", "products", "users"} {
		_, err := db.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
	return db
}

func TestMySQL_VentaYStockInsuficiente(t *testing.T) {
	db := openMySQL(t)
	hammer := upsert(t, db, "Hammer", "count", "10", "5.00")
	uc := sales.NewProcessSaleUseCase(sqlstore.NewTxRunner(db), sales.Options{}, zerolog.Nop())

	res, err := sell(uc, dto.SaleLineRequest{ProductID: hammer.ID, Quantity: d("4")})
	require.NoError(t, err)
	assert.True(t, res.Total.Equal(d("20")))
	assert.True(t, stock(t, db, hammer.ID).Equal(d("6")))

	_, err = sell(uc, dto.SaleLineRequest{ProductID: hammer.ID, Quantity: d("7")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stock(t, db, hammer.ID).Equal(d("6")))
}

func TestMySQL_ImportesConCincoDecimales(t *testing.T) {
	db := openMySQL(t)
	tile := upsert(t, db, "Tile", "area", "7", "0.33")
	uc := sales.NewProcessSaleUseCase(sqlstore.NewTxRunner(db), sales.Options{}, zerolog.Nop())

	res, err := sell(uc,
		dto.SaleLineRequest{ProductID: tile.ID, Quantity: d("1.5")},
		dto.SaleLineRequest{ProductID: tile.ID, Quantity: d("1.5")})
	require.NoError(t, err)
	assertStoredAmounts(t, db, res.SaleID, "0.495", "0.99")
	assert.True(t, stock(t, db, tile.ID).Equal(d("4")))

	rows, err := sqlstore.NewSaleRepository(db).Query(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].PurchasePrice.Equal(d("1")))
}
