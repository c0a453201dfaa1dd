package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale cabecera inmutable de una venta. Total = suma exacta de LineTotal de sus líneas.
type Sale struct {
	ID        string
	UserID    string
	Total     decimal.Decimal
	CreatedAt time.Time
}

// SaleLine aporte de un producto a una venta.
// UnitPrice es el precio de venta capturado al momento de vender.
type SaleLine struct {
	ID        string
	SaleID    string
	LineNo    int // posición en la petición, desde 1
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// SaleReportRow fila desnormalizada venta/línea/producto para reportes.
type SaleReportRow struct {
	SaleID      string
	SoldAt      time.Time
	UserID      string
	SaleTotal   decimal.Decimal
	LineNo      int
	ProductID   string
	ProductName string
	Brand       string
	Unit        string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal

	// PurchasePrice precio de compra vigente del producto, para costo y ganancia.
	PurchasePrice decimal.Decimal
}
