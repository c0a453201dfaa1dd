package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// Valores por defecto si Options llega en cero.
const (
	DefaultTxTimeout = 5 * time.Second
	DefaultMaxLines  = 200
)

// Options límites operativos del procesador de ventas.
type Options struct {
	TxTimeout time.Duration
	MaxLines  int
}

// ProcessSaleUseCase registra una venta de varias líneas de forma atómica:
// valida, bloquea los productos, calcula totales, escribe el libro y descuenta stock
// en una sola transacción. O se confirma todo o no queda ningún rastro.
type ProcessSaleUseCase struct {
	txRunner TxRunner
	opts     Options
	log      zerolog.Logger
	now      func() time.Time
}

// NewProcessSaleUseCase construye el caso de uso.
func NewProcessSaleUseCase(txRunner TxRunner, opts Options, log zerolog.Logger) *ProcessSaleUseCase {
	if opts.TxTimeout <= 0 {
		opts.TxTimeout = DefaultTxTimeout
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultMaxLines
	}
	return &ProcessSaleUseCase{
		txRunner: txRunner,
		opts:     opts,
		log:      log.With().Str("component", "sales").Logger(),
		now:      time.Now,
	}
}

// ProcessSale procesa la venta de userID.
//
// Retorna:
//   - *domain.InvalidInputError       si la petición está mal formada (sin tocar la BD).
//   - *domain.ProductNotFoundError    si alguna línea referencia un producto inexistente.
//   - *domain.InsufficientStockError  si alguna línea pide más de lo disponible.
//   - *domain.TransactionError        si la BD no pudo completar la transacción.
func (uc *ProcessSaleUseCase) ProcessSale(ctx context.Context, userID string, in dto.ProcessSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validate(userID, in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.TxTimeout)
	defer cancel()

	sale := &entity.Sale{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: uc.now().UTC().Truncate(time.Microsecond),
	}
	var sold []dto.SaleLineResponse

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		// Bloqueo en orden de id: dos ventas con los mismos productos no se cruzan.
		locked, err := productRepo.LockByIDs(ctx, distinctProductIDs(in.Lines))
		if err != nil {
			return fmt.Errorf("bloquear productos: %w", err)
		}

		lines, details, total, err := reserve(sale.ID, in.Lines, locked)
		if err != nil {
			return err
		}
		sale.Total = total

		if err := saleRepo.Append(ctx, sale, lines); err != nil {
			return fmt.Errorf("registrar venta: %w", err)
		}
		for _, l := range lines {
			if _, err := productRepo.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		sold = details
		return nil
	})
	if err != nil {
		return nil, uc.abort(userID, err)
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("user_id", userID).
		Str("total", sale.Total.String()).
		Int("lines", len(sold)).
		Msg("venta registrada")

	return &dto.SaleResponse{
		SaleID:    sale.ID,
		UserID:    sale.UserID,
		Total:     sale.Total,
		CreatedAt: sale.CreatedAt,
		Lines:     sold,
	}, nil
}

func (uc *ProcessSaleUseCase) validate(userID string, in dto.ProcessSaleRequest) error {
	if strings.TrimSpace(userID) == "" {
		return domain.InvalidInput("user_id", "es obligatorio")
	}
	if len(in.Lines) == 0 {
		return domain.InvalidInput("lines", "debe contener al menos una línea")
	}
	if len(in.Lines) > uc.opts.MaxLines {
		return domain.InvalidInput("lines", fmt.Sprintf("no puede superar %d líneas", uc.opts.MaxLines))
	}
	for i, l := range in.Lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return domain.InvalidInput(fmt.Sprintf("lines[%d].product_id", i), "es obligatorio")
		}
		if !l.Quantity.IsPositive() {
			return domain.InvalidInput(fmt.Sprintf("lines[%d].quantity", i), "debe ser mayor que cero")
		}
		if !entity.FitsScale(l.Quantity, entity.QuantityScale) {
			return domain.InvalidInput(fmt.Sprintf("lines[%d].quantity", i),
				fmt.Sprintf("admite como máximo %d decimales", entity.QuantityScale))
		}
	}
	return nil
}

// reserve recorre las líneas en el orden pedido contra las filas bloqueadas.
// Las líneas repetidas de un mismo producto se validan contra el stock que dejan las anteriores.
func reserve(saleID string, req []dto.SaleLineRequest, locked map[string]*entity.Product) ([]*entity.SaleLine, []dto.SaleLineResponse, decimal.Decimal, error) {
	remaining := make(map[string]decimal.Decimal, len(locked))
	lines := make([]*entity.SaleLine, 0, len(req))
	details := make([]dto.SaleLineResponse, 0, len(req))
	total := decimal.Zero

	for i, l := range req {
		p, ok := locked[l.ProductID]
		if !ok || p == nil {
			return nil, nil, decimal.Zero, &domain.ProductNotFoundError{ProductID: l.ProductID}
		}
		if !p.AcceptsQuantity(l.Quantity) {
			return nil, nil, decimal.Zero, domain.InvalidInput(
				fmt.Sprintf("lines[%d].quantity", i), "debe ser entera para productos por unidad")
		}
		available, seen := remaining[p.ID]
		if !seen {
			available = p.Quantity
		}
		if l.Quantity.GreaterThan(available) {
			return nil, nil, decimal.Zero, &domain.InsufficientStockError{
				ProductID: p.ID,
				Requested: l.Quantity,
				Available: available,
			}
		}
		remaining[p.ID] = available.Sub(l.Quantity)

		unitPrice := p.SalePrice
		lineTotal := l.Quantity.Mul(unitPrice)
		total = total.Add(lineTotal)

		lines = append(lines, &entity.SaleLine{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			LineNo:    i + 1,
			ProductID: p.ID,
			Quantity:  l.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		details = append(details, dto.SaleLineResponse{
			ProductID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			Unit:      p.Unit,
			Quantity:  l.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}
	return lines, details, total, nil
}

// abort clasifica el error de la transacción ya revertida.
func (uc *ProcessSaleUseCase) abort(userID string, err error) error {
	if domain.IsBusiness(err) {
		ev := uc.log.Warn().Str("user_id", userID).Err(err)
		var nf *domain.ProductNotFoundError
		var is *domain.InsufficientStockError
		switch {
		case errors.As(err, &nf):
			ev = ev.Str("kind", "product_not_found").Str("product_id", nf.ProductID)
		case errors.As(err, &is):
			ev = ev.Str("kind", "insufficient_stock").Str("product_id", is.ProductID)
		default:
			ev = ev.Str("kind", "invalid_input")
		}
		ev.Msg("venta rechazada")
		return err
	}

	uc.log.Error().Err(err).Str("user_id", userID).Msg("venta abortada por fallo de transacción")
	var txErr *domain.TransactionError
	if errors.As(err, &txErr) {
		return txErr
	}
	return &domain.TransactionError{Err: err}
}

func distinctProductIDs(lines []dto.SaleLineRequest) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)
	return ids
}
