package catalog

import (
	"context"

	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// TxRunner misma unidad de trabajo que usa el procesador de ventas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
