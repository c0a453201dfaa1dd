package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL. Solo INSERT y SELECT.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Append inserta la cabecera y las líneas en un solo batch.
func (r *SaleRepo) Append(ctx context.Context, sale *entity.Sale, lines []*entity.SaleLine) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO sales (id, user_id, total, created_at) VALUES ($1, $2, $3, $4)`,
		sale.ID, sale.UserID, sale.Total, sale.CreatedAt)
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO sale_lines (id, sale_id, line_no, product_id, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			l.ID, l.SaleID, l.LineNo, l.ProductID, l.Quantity, l.UnitPrice, l.LineTotal)
	}

	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("insert sale (stmt %d): %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx, `SELECT id, user_id, total, created_at FROM sales WHERE id = $1`, id).
		Scan(&s.ID, &s.UserID, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// GetLines devuelve las líneas en el orden en que se pidieron.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, line_no, product_id, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.LineNo, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Query filas venta/línea/producto con límites inclusivos; nil = sin límite.
func (r *SaleRepo) Query(ctx context.Context, from, to *time.Time) ([]*entity.SaleReportRow, error) {
	query := `
		SELECT s.id, s.created_at, s.user_id, s.total,
		       l.line_no, l.product_id, p.name, p.brand, p.unit,
		       l.quantity, l.unit_price, l.line_total, p.purchase_price
		FROM sales s
		JOIN sale_lines l ON l.sale_id = s.id
		JOIN products p ON p.id = l.product_id
		WHERE ($1::timestamptz IS NULL OR s.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR s.created_at <= $2)
		ORDER BY s.created_at, s.id, l.line_no`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleReportRow
	for rows.Next() {
		var row entity.SaleReportRow
		if err := rows.Scan(&row.SaleID, &row.SoldAt, &row.UserID, &row.SaleTotal,
			&row.LineNo, &row.ProductID, &row.ProductName, &row.Brand, &row.Unit,
			&row.Quantity, &row.UnitPrice, &row.LineTotal, &row.PurchasePrice); err != nil {
			return nil, fmt.Errorf("scan sale row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
