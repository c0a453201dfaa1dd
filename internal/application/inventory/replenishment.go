// Package inventory arma la lista de reposición a partir del catálogo y del libro de ventas.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

const (
	DefaultReorderPoint = 5
	DefaultWindowDays   = 90
	maxWindowDays       = 366
)

var (
	hundred          = decimal.NewFromInt(100)
	idealStockFactor = decimal.RequireFromString("1.5")
)

// ReplenishmentUseCase genera la lista de reposición.
// Combina el stock actual con las ventas recientes para priorizar los productos críticos.
type ReplenishmentUseCase struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, saleRepo: saleRepo, now: time.Now}
}

// GenerateReplenishmentList devuelve los productos con stock <= punto de reorden, con la
// cantidad sugerida de pedido y un ranking de prioridad por margen y volumen vendido.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, q dto.ReplenishmentQuery) ([]dto.ReplenishmentSuggestion, error) {
	reorderPoint := decimal.NewFromInt(DefaultReorderPoint)
	if q.Threshold != "" {
		d, err := decimal.NewFromString(q.Threshold)
		if err != nil || d.IsNegative() {
			return nil, domain.InvalidInput("threshold", "debe ser un número >= 0")
		}
		reorderPoint = d
	}
	days := q.Days
	if days == 0 {
		days = DefaultWindowDays
	}
	if days < 0 || days > maxWindowDays {
		return nil, domain.InvalidInput("days", fmt.Sprintf("debe estar entre 1 y %d", maxWindowDays))
	}

	// 1. Productos por debajo del punto de reorden
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reposición: listar productos: %w", err)
	}
	var low []*entity.Product
	for _, p := range products {
		if p.Quantity.LessThanOrEqual(reorderPoint) {
			low = append(low, p)
		}
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	// 2. Unidades vendidas por producto en la ventana
	end := uc.now().UTC()
	start := end.AddDate(0, 0, -days)
	rows, err := uc.saleRepo.Query(ctx, &start, &end)
	if err != nil {
		return nil, fmt.Errorf("reposición: consultar ventas: %w", err)
	}
	sold := make(map[string]decimal.Decimal, len(low))
	for _, r := range rows {
		sold[r.ProductID] = sold[r.ProductID].Add(r.Quantity)
	}

	// 3. Sugerencias
	idealStock := reorderPoint.Mul(idealStockFactor)
	suggestions := make([]dto.ReplenishmentSuggestion, 0, len(low))
	for _, p := range low {
		qty := idealStock.Sub(p.Quantity)
		if p.Unit == entity.UnitCount {
			qty = qty.Ceil()
		}
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		var margin decimal.Decimal
		if p.SalePrice.IsPositive() {
			margin = p.SalePrice.Sub(p.PurchasePrice).Div(p.SalePrice).Mul(hundred).Round(2)
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestion{
			ProductID:          p.ID,
			Name:               p.Name,
			Brand:              p.Brand,
			Unit:               p.Unit,
			CurrentStock:       p.Quantity,
			ReorderPoint:       reorderPoint,
			IdealStock:         idealStock,
			SuggestedOrderQty:  qty,
			PurchasePrice:      p.PurchasePrice,
			EstimatedOrderCost: qty.Mul(p.PurchasePrice),
			GrossMarginPct:     margin,
			UnitsSold:          sold[p.ID],
		})
	}

	// 4. Ordenar: mayor margen, luego más vendido, luego menos stock.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSold.Equal(b.UnitsSold) {
			return a.UnitsSold.GreaterThan(b.UnitsSold)
		}
		return a.CurrentStock.LessThan(b.CurrentStock)
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
