package main

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/Chars502/ferreteria-kairos/internal/application/catalog"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/infrastructure/memory"
)

func TestParseCSV_UTF8ConCabecera(t *testing.T) {
	raw := []byte("name,brand,unit,quantity,purchase_price,sale_price\n" +
		"Martillo,Truper,count,10,3.50,5.00\n" +
		"\n" +
		"Cerámica,Corona,area,25.5,\"1,20\",\"2,10\"\n")

	rows, err := parseCSV(raw, ",")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Martillo", rows[0].Req.Name)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Cerámica", rows[1].Req.Name)
	assert.True(t, rows[1].Req.Quantity.Equal(decimal.RequireFromString("25.5")))
	assert.True(t, rows[1].Req.SalePrice.Equal(decimal.RequireFromString("2.10")))
}

func TestParseCSV_Latin1PuntoYComa(t *testing.T) {
	utf := "Cerámica;Ñandú;area;3;1;2\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	rows, err := parseCSV([]byte(latin), ";")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cerámica", rows[0].Req.Name)
	assert.Equal(t, "Ñandú", rows[0].Req.Brand)
}

func TestParseCSV_Errores(t *testing.T) {
	_, err := parseCSV([]byte("a,b,c\n"), ",")
	assert.Error(t, err)

	_, err = parseCSV([]byte("a,b,count,diez,1,2\n"), ",")
	assert.Error(t, err)
}

func TestSeedProducts(t *testing.T) {
	store := memory.NewStore()
	uc := catalog.NewUpsertProductUseCase(memory.NewTxRunner(store), zerolog.Nop())

	rows, err := parseCSV([]byte(
		"Clavo,Acme,count,100,0.05,0.10\n"+
			"Clavo,Acme,count,50,0.06,0.12\n"+
			"Tornillo,Acme,count,1.5,0.05,0.10\n"), ",")
	require.NoError(t, err)

	res := seedProducts(context.Background(), uc, rows)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Restocked)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.ErrorIs(t, res.Errors[0].Err, domain.ErrInvalidInput)

	list, err := store.Products().List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Quantity.Equal(decimal.NewFromInt(150)))
}
