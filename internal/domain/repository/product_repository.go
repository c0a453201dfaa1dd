package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del stock (DIP).
// Las implementaciones sirven tanto sobre el pool como dentro de una transacción.
type ProductRepository interface {
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByNameAndBrandForUpdate bloquea la fila (name, brand) hasta el fin de la transacción.
	GetByNameAndBrandForUpdate(ctx context.Context, name, brand string) (*entity.Product, error)
	// LockByIDs bloquea las filas en orden ascendente de id y devuelve las encontradas.
	LockByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	// DecrementStock descuenta amount solo si hay stock suficiente; nunca deja cantidad negativa.
	DecrementStock(ctx context.Context, id string, amount decimal.Decimal) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
}
