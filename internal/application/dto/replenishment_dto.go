package dto

import "github.com/shopspring/decimal"

// ReplenishmentQuery parámetros de GET /api/products/replenishment.
type ReplenishmentQuery struct {
	Threshold string `query:"threshold"` // punto de reorden; por defecto 5
	Days      int    `query:"days"`      // ventana de ventas; por defecto 90
}

// ReplenishmentSuggestion producto bajo el punto de reorden con la cantidad sugerida de pedido.
type ReplenishmentSuggestion struct {
	ProductID          string          `json:"product_id"`
	Name               string          `json:"name"`
	Brand              string          `json:"brand"`
	Unit               string          `json:"unit"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`
	PurchasePrice      decimal.Decimal `json:"purchase_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	UnitsSold          decimal.Decimal `json:"units_sold"`
	Priority           int             `json:"priority"`
}
