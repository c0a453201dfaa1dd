package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, brand, unit, quantity, purchase_price, sale_price, created_at, updated_at`

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Brand         string          `db:"brand"`
	Unit          string          `db:"unit"`
	Quantity      decimal.Decimal `db:"quantity"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	SalePrice     decimal.Decimal `db:"sale_price"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID: r.ID, Name: r.Name, Brand: r.Brand, Unit: r.Unit,
		Quantity: r.Quantity, PurchasePrice: r.PurchasePrice, SalePrice: r.SalePrice,
		CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// ProductRepo stock sobre MySQL o SQLite; q es *sqlx.DB o *sqlx.Tx.
type ProductRepo struct {
	q       sqlx.ExtContext
	dialect string
}

// NewProductRepository construye el repositorio fuera de transacción.
func NewProductRepository(db *DB) *ProductRepo {
	return &ProductRepo{q: db.DB, dialect: db.dialect}
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var row productRow
	if err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toEntity(), nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByNameAndBrandForUpdate lectura bloqueante por clave natural.
func (r *ProductRepo) GetByNameAndBrandForUpdate(ctx context.Context, name, brand string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = ? AND brand = ?` + forUpdate(r.dialect)
	p, err := r.getOne(ctx, query, name, brand)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// LockByIDs bloquea en orden de id (MySQL); en SQLite la tx ya es exclusiva.
func (r *ProductRepo) LockByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?) ORDER BY id`+forUpdate(r.dialect), ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, r.q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	for _, row := range rows {
		out[row.ID] = row.toEntity()
	}
	return out, nil
}

// Create inserta el producto; ErrDuplicate si (name, brand) ya existe.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.ExecContext(ctx, r.q.Rebind(`
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Name, p.Brand, p.Unit, p.Quantity, p.PurchasePrice, p.SalePrice, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Update sobrescribe cantidad, unidad y precios.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if p.Quantity.IsNegative() {
		return domain.InvalidInput("quantity", "no puede ser negativa")
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE products
		SET unit = ?, quantity = ?, purchase_price = ?, sale_price = ?, updated_at = ?
		WHERE id = ?`),
		p.Unit, p.Quantity, p.PurchasePrice, p.SalePrice, p.UpdatedAt.UTC(), p.ID)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// MySQL cuenta 0 filas si los valores no cambian; confirmar que existe.
		exists, err := r.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		if exists == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

// DecrementStock lee la cantidad, valida y escribe con compare-and-set sobre el valor leído.
// La resta se hace con decimal en Go: SQLite guarda las cantidades como texto exacto.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, amount decimal.Decimal) (*entity.Product, error) {
	p, err := r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`+forUpdate(r.dialect), id)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if p == nil {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	if amount.GreaterThan(p.Quantity) {
		return nil, &domain.InsufficientStockError{ProductID: id, Requested: amount, Available: p.Quantity}
	}

	next := p.Quantity.Sub(amount)
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE products SET quantity = ?, updated_at = ?
		WHERE id = ? AND quantity = ?`),
		next, now, id, p.Quantity)
	if err != nil {
		return nil, fmt.Errorf("decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return nil, fmt.Errorf("decrement stock: cantidad de %s modificada concurrentemente", id)
	}
	p.Quantity = next
	p.UpdatedAt = now
	return p, nil
}

// List ordenado por nombre, marca e id.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+productColumns+` FROM products ORDER BY name, brand, id`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
