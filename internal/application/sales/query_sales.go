package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

const dateOnly = "2006-01-02"

// QuerySalesUseCase lectura del libro de ventas para reportes.
type QuerySalesUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQuerySalesUseCase construye el caso de uso.
func NewQuerySalesUseCase(saleRepo repository.SaleRepository) *QuerySalesUseCase {
	return &QuerySalesUseCase{saleRepo: saleRepo}
}

// Query devuelve las filas venta/línea/producto dentro del rango [from, to].
// Un "to" solo con fecha incluye el día completo.
func (uc *QuerySalesUseCase) Query(ctx context.Context, q dto.SalesQuery) ([]dto.SaleReportRowResponse, error) {
	from, err := ParseDateBound(q.From, false)
	if err != nil {
		return nil, domain.InvalidInput("from", err.Error())
	}
	to, err := ParseDateBound(q.To, true)
	if err != nil {
		return nil, domain.InvalidInput("to", err.Error())
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, domain.InvalidInput("from", "no puede ser posterior a to")
	}

	rows, err := uc.saleRepo.Query(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("consultar ventas: %w", err)
	}
	out := make([]dto.SaleReportRowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, toReportRowResponse(r))
	}
	return out, nil
}

// ParseDateBound interpreta un límite de fecha (YYYY-MM-DD o RFC3339) en UTC.
// Con endOfDay, una fecha sin hora se extiende al último instante de ese día.
// Cadena vacía significa sin límite.
func ParseDateBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("fecha inválida %q, use YYYY-MM-DD o RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}

func toReportRowResponse(r *entity.SaleReportRow) dto.SaleReportRowResponse {
	return dto.SaleReportRowResponse{
		SaleID:      r.SaleID,
		SoldAt:      r.SoldAt,
		UserID:      r.UserID,
		SaleTotal:   r.SaleTotal,
		LineNo:      r.LineNo,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Brand:       r.Brand,
		Unit:        r.Unit,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		LineTotal:   r.LineTotal,

		PurchasePrice: r.PurchasePrice,
	}
}
