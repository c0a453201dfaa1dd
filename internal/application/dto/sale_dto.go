package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest una línea pedida: producto y cantidad.
type SaleLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ProcessSaleRequest entrada de POST /api/sales.
type ProcessSaleRequest struct {
	Lines []SaleLineRequest `json:"lines"`
}

// SaleLineResponse detalle vendido, suficiente para imprimir el recibo.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// SaleResponse venta confirmada.
type SaleResponse struct {
	SaleID    string             `json:"sale_id"`
	UserID    string             `json:"user_id"`
	Total     decimal.Decimal    `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Lines     []SaleLineResponse `json:"lines"`
}

// SalesQuery filtro opcional por rango de fechas (inclusivo).
// Acepta YYYY-MM-DD o RFC3339.
type SalesQuery struct {
	From string `query:"from"`
	To   string `query:"to"`
}

// SaleReportRowResponse fila del reporte de ventas (venta + línea + producto).
type SaleReportRowResponse struct {
	SaleID      string          `json:"sale_id"`
	SoldAt      time.Time       `json:"sold_at"`
	UserID      string          `json:"user_id"`
	SaleTotal   decimal.Decimal `json:"sale_total"`
	LineNo      int             `json:"line_no"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Brand       string          `json:"brand"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`

	// Precio de compra actual del producto (no capturado en la venta).
	PurchasePrice decimal.Decimal `json:"purchase_price"`
}
