package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas en memoria: solo inserción.
type SaleRepo struct {
	s    *Store
	inTx bool
}

func (r *SaleRepo) Append(_ context.Context, sale *entity.Sale, lines []*entity.SaleLine) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, l := range lines {
		if _, ok := r.s.products[l.ProductID]; !ok {
			return &domain.ProductNotFoundError{ProductID: l.ProductID}
		}
	}
	h := *sale
	r.s.sales[sale.ID] = &h
	r.s.saleIDs = append(r.s.saleIDs, sale.ID)
	copied := make([]*entity.SaleLine, 0, len(lines))
	for _, l := range lines {
		c := *l
		copied = append(copied, &c)
	}
	r.s.lines[sale.ID] = copied
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	defer r.s.rguard(r.inTx)()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	c := *s
	return &c, nil
}

func (r *SaleRepo) GetLines(_ context.Context, saleID string) ([]*entity.SaleLine, error) {
	defer r.s.rguard(r.inTx)()
	src := r.s.lines[saleID]
	out := make([]*entity.SaleLine, 0, len(src))
	for _, l := range src {
		c := *l
		out = append(out, &c)
	}
	return out, nil
}

// Query une venta, línea y producto; orden por fecha de venta y posición de línea.
func (r *SaleRepo) Query(_ context.Context, from, to *time.Time) ([]*entity.SaleReportRow, error) {
	defer r.s.rguard(r.inTx)()
	sales := make([]*entity.Sale, 0, len(r.s.saleIDs))
	for _, id := range r.s.saleIDs {
		s := r.s.sales[id]
		if from != nil && s.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && s.CreatedAt.After(*to) {
			continue
		}
		sales = append(sales, s)
	}
	// Ventas del mismo instante conservan el orden de inserción.
	sort.SliceStable(sales, func(i, j int) bool { return sales[i].CreatedAt.Before(sales[j].CreatedAt) })

	var rows []*entity.SaleReportRow
	for _, s := range sales {
		for _, l := range r.s.lines[s.ID] {
			row := &entity.SaleReportRow{
				SaleID:    s.ID,
				SoldAt:    s.CreatedAt,
				UserID:    s.UserID,
				SaleTotal: s.Total,
				LineNo:    l.LineNo,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
				LineTotal: l.LineTotal,
			}
			if p, ok := r.s.products[l.ProductID]; ok {
				row.ProductName = p.Name
				row.Brand = p.Brand
				row.Unit = p.Unit
				row.PurchasePrice = p.PurchasePrice
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}
