package sales

import (
	"context"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn retorna error, hace panic o el contexto se cancela antes del commit, todo se revierte.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptLine línea de venta enriquecida con los datos del producto.
type ReceiptLine struct {
	entity.SaleLine
	ProductName string
	Brand       string
	Unit        string
}

// ReceiptData todo lo necesario para imprimir un recibo.
type ReceiptData struct {
	StoreName  string
	Sale       *entity.Sale
	SellerName string
	Lines      []ReceiptLine
}

// ReceiptGenerator genera la representación PDF de un recibo de venta.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}
