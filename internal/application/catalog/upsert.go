package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// UpsertProductUseCase crea un producto o repone stock de uno existente (clave name+brand).
type UpsertProductUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
	now      func() time.Time
}

// NewUpsertProductUseCase construye el caso de uso.
func NewUpsertProductUseCase(txRunner TxRunner, log zerolog.Logger) *UpsertProductUseCase {
	return &UpsertProductUseCase{
		txRunner: txRunner,
		log:      log.With().Str("component", "catalog").Logger(),
		now:      time.Now,
	}
}

// Upsert suma in.Quantity al producto (name, brand) y sobrescribe unidad y precios,
// o lo crea si no existe. created indica cuál de los dos casos ocurrió.
func (uc *UpsertProductUseCase) Upsert(ctx context.Context, in dto.UpsertProductRequest) (*entity.Product, bool, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Unit = strings.ToLower(strings.TrimSpace(in.Unit))
	if err := validateUpsert(in); err != nil {
		return nil, false, err
	}

	product, created, err := uc.upsertOnce(ctx, in)
	if errors.Is(err, domain.ErrDuplicate) {
		// Otro alta del mismo (name, brand) ganó la carrera; el reintento lo encuentra y suma.
		uc.log.Debug().Str("name", in.Name).Str("brand", in.Brand).Msg("alta concurrente, reintentando como reposición")
		product, created, err = uc.upsertOnce(ctx, in)
	}
	if err != nil {
		return nil, false, err
	}

	status := dto.UpsertStatusRestocked
	if created {
		status = dto.UpsertStatusCreated
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Str("status", status).
		Str("quantity", product.Quantity.String()).
		Msg("catálogo actualizado")
	return product, created, nil
}

func (uc *UpsertProductUseCase) upsertOnce(ctx context.Context, in dto.UpsertProductRequest) (*entity.Product, bool, error) {
	var result *entity.Product
	var created bool
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.SaleRepository) error {
		now := uc.now().UTC().Truncate(time.Microsecond)
		existing, err := productRepo.GetByNameAndBrandForUpdate(ctx, in.Name, in.Brand)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity = existing.Quantity.Add(in.Quantity)
			existing.Unit = in.Unit
			existing.PurchasePrice = in.PurchasePrice
			existing.SalePrice = in.SalePrice
			existing.UpdatedAt = now
			// Si la unidad cambia a conteo, el stock acumulado debe seguir siendo entero.
			if !existing.AcceptsQuantity(existing.Quantity) {
				return domain.InvalidInput("unit", "el stock actual no es entero para la unidad count")
			}
			if err := productRepo.Update(ctx, existing); err != nil {
				return err
			}
			result, created = existing, false
			return nil
		}
		p := &entity.Product{
			ID:            uuid.New().String(),
			Name:          in.Name,
			Brand:         in.Brand,
			Unit:          in.Unit,
			Quantity:      in.Quantity,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
		result, created = p, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func validateUpsert(in dto.UpsertProductRequest) error {
	switch {
	case in.Name == "":
		return domain.InvalidInput("name", "es obligatorio")
	case in.Brand == "":
		return domain.InvalidInput("brand", "es obligatoria")
	case in.Unit == "":
		return domain.InvalidInput("unit", "es obligatoria")
	case !entity.ValidUnit(in.Unit):
		return domain.InvalidInput("unit", "debe ser count o area")
	case !in.Quantity.IsPositive():
		return domain.InvalidInput("quantity", "debe ser mayor que cero")
	case in.Unit == entity.UnitCount && !in.Quantity.IsInteger():
		return domain.InvalidInput("quantity", "debe ser entera para la unidad count")
	case !entity.FitsScale(in.Quantity, entity.QuantityScale):
		return domain.InvalidInput("quantity", fmt.Sprintf("admite como máximo %d decimales", entity.QuantityScale))
	case !in.PurchasePrice.IsPositive():
		return domain.InvalidInput("purchase_price", "debe ser mayor que cero")
	case !entity.FitsScale(in.PurchasePrice, entity.PriceScale):
		return domain.InvalidInput("purchase_price", fmt.Sprintf("admite como máximo %d decimales", entity.PriceScale))
	case !in.SalePrice.IsPositive():
		return domain.InvalidInput("sale_price", "debe ser mayor que cero")
	case !entity.FitsScale(in.SalePrice, entity.PriceScale):
		return domain.InvalidInput("sale_price", fmt.Sprintf("admite como máximo %d decimales", entity.PriceScale))
	}
	return nil
}

// ToProductResponse mapea la entidad a su DTO de salida.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Unit:          p.Unit,
		Quantity:      p.Quantity,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
