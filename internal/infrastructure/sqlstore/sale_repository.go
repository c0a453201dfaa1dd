package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas: solo INSERT y SELECT.
type SaleRepo struct {
	q sqlx.ExtContext
}

// NewSaleRepository construye el repositorio fuera de transacción.
func NewSaleRepository(db *DB) *SaleRepo {
	return &SaleRepo{q: db.DB}
}

type saleRow struct {
	ID        string          `db:"id"`
	UserID    string          `db:"user_id"`
	Total     decimal.Decimal `db:"total"`
	CreatedAt time.Time       `db:"created_at"`
}

type saleLineRow struct {
	ID        string          `db:"id"`
	SaleID    string          `db:"sale_id"`
	LineNo    int             `db:"line_no"`
	ProductID string          `db:"product_id"`
	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total"`
}

type reportRow struct {
	SaleID      string          `db:"sale_id"`
	SoldAt      time.Time       `db:"sold_at"`
	UserID      string          `db:"user_id"`
	SaleTotal   decimal.Decimal `db:"sale_total"`
	LineNo      int             `db:"line_no"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Brand       string          `db:"brand"`
	Unit        string          `db:"unit"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	LineTotal   decimal.Decimal `db:"line_total"`

	PurchasePrice decimal.Decimal `db:"purchase_price"`
}

// Append inserta cabecera y líneas; pensado para correr dentro de la tx de la venta.
func (r *SaleRepo) Append(ctx context.Context, sale *entity.Sale, lines []*entity.SaleLine) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`INSERT INTO sales (id, user_id, total, created_at) VALUES (?, ?, ?, ?)`),
		sale.ID, sale.UserID, sale.Total, sale.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	rows := make([]saleLineRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, saleLineRow{
			ID: l.ID, SaleID: l.SaleID, LineNo: l.LineNo, ProductID: l.ProductID,
			Quantity: l.Quantity, UnitPrice: l.UnitPrice, LineTotal: l.LineTotal,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	_, err = sqlx.NamedExecContext(ctx, r.q, `
		INSERT INTO sale_lines (id, sale_id, line_no, product_id, quantity, unit_price, line_total)
		VALUES (:id, :sale_id, :line_no, :product_id, :quantity, :unit_price, :line_total)`, rows)
	if err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera; (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var row saleRow
	err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(`SELECT id, user_id, total, created_at FROM sales WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &entity.Sale{ID: row.ID, UserID: row.UserID, Total: row.Total, CreatedAt: row.CreatedAt.UTC()}, nil
}

// GetLines líneas en orden de la petición.
func (r *SaleRepo) GetLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error) {
	var rows []saleLineRow
	err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(`
		SELECT id, sale_id, line_no, product_id, quantity, unit_price, line_total
		FROM sale_lines WHERE sale_id = ? ORDER BY line_no`), saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	out := make([]*entity.SaleLine, 0, len(rows))
	for _, l := range rows {
		out = append(out, &entity.SaleLine{
			ID: l.ID, SaleID: l.SaleID, LineNo: l.LineNo, ProductID: l.ProductID,
			Quantity: l.Quantity, UnitPrice: l.UnitPrice, LineTotal: l.LineTotal,
		})
	}
	return out, nil
}

// Query filas venta/línea/producto; límites inclusivos, nil = sin límite.
func (r *SaleRepo) Query(ctx context.Context, from, to *time.Time) ([]*entity.SaleReportRow, error) {
	query := `
		SELECT s.id AS sale_id, s.created_at AS sold_at, s.user_id, s.total AS sale_total,
		       l.line_no, l.product_id, p.name AS product_name, p.brand, p.unit,
		       l.quantity, l.unit_price, l.line_total, p.purchase_price
		FROM sales s
		JOIN sale_lines l ON l.sale_id = s.id
		JOIN products p ON p.id = l.product_id
		WHERE 1 = 1`
	var args []any
	if from != nil {
		query += ` AND s.created_at >= ?`
		args = append(args, from.UTC())
	}
	if to != nil {
		query += ` AND s.created_at <= ?`
		args = append(args, to.UTC())
	}
	query += ` ORDER BY s.created_at, s.id, l.line_no`

	var rows []reportRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	out := make([]*entity.SaleReportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.SaleReportRow{
			SaleID: row.SaleID, SoldAt: row.SoldAt.UTC(), UserID: row.UserID, SaleTotal: row.SaleTotal,
			LineNo: row.LineNo, ProductID: row.ProductID, ProductName: row.ProductName,
			Brand: row.Brand, Unit: row.Unit,
			Quantity: row.Quantity, UnitPrice: row.UnitPrice, LineTotal: row.LineTotal,
			PurchasePrice: row.PurchasePrice,
		})
	}
	return out, nil
}
