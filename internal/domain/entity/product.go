package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de un producto.
const (
	UnitCount = "count" // unidades enteras (martillos, cajas)
	UnitArea  = "area"  // metros cuadrados, admite decimales
)

// Decimales que admiten las columnas; los importes de línea y totales guardan
// QuantityScale + PriceScale para que cantidad × precio quepa sin redondear.
const (
	QuantityScale = 3
	PriceScale    = 2
	AmountScale   = QuantityScale + PriceScale
)

// FitsScale indica si d no tiene más de scale decimales.
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}

// Product representa un artículo de la ferretería con su stock disponible.
// La clave natural es (Name, Brand); Quantity nunca es negativa.
type Product struct {
	ID            string
	Name          string
	Brand         string
	Unit          string
	Quantity      decimal.Decimal
	PurchasePrice decimal.Decimal // precio de compra
	SalePrice     decimal.Decimal // precio de venta vigente
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidUnit indica si unit es una unidad de medida soportada.
func ValidUnit(unit string) bool {
	return unit == UnitCount || unit == UnitArea
}

// AcceptsQuantity indica si q es una cantidad expresable en la unidad del producto.
// Los productos por conteo solo aceptan cantidades enteras.
func (p *Product) AcceptsQuantity(q decimal.Decimal) bool {
	if p.Unit == UnitCount {
		return q.IsInteger()
	}
	return true
}

// Clone devuelve una copia independiente del producto.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}
