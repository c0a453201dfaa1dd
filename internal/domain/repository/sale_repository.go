package repository

import (
	"context"
	"time"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
)

// SaleRepository libro de ventas: solo inserción y lectura.
type SaleRepository interface {
	// Append escribe la cabecera y todas sus líneas; lo usa únicamente el procesador de ventas.
	Append(ctx context.Context, sale *entity.Sale, lines []*entity.SaleLine) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetLines(ctx context.Context, saleID string) ([]*entity.SaleLine, error)
	// Query filtra por fecha de venta con límites inclusivos; nil significa sin límite.
	Query(ctx context.Context, from, to *time.Time) ([]*entity.SaleReportRow, error)
}
