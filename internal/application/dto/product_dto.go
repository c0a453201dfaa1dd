package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados devueltos por el alta/reposición de catálogo.
const (
	UpsertStatusCreated   = "created"
	UpsertStatusRestocked = "restocked"
)

// UpsertProductRequest alta o reposición de un producto identificado por (name, brand).
// Quantity se suma al stock existente.
type UpsertProductRequest struct {
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Brand         string          `json:"brand"`
	Unit          string          `json:"unit"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UpsertProductResponse resultado del upsert: "created" o "restocked".
type UpsertProductResponse struct {
	ID      string          `json:"id"`
	Status  string          `json:"status"`
	Product ProductResponse `json:"product"`
}
