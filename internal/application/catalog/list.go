package catalog

import (
	"context"

	"github.com/Chars502/ferreteria-kairos/internal/application/dto"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// ListProductsUseCase listado de solo lectura del catálogo.
type ListProductsUseCase struct {
	productRepo repository.ProductRepository
}

// NewListProductsUseCase construye el caso de uso.
func NewListProductsUseCase(productRepo repository.ProductRepository) *ListProductsUseCase {
	return &ListProductsUseCase{productRepo: productRepo}
}

// List devuelve todos los productos ordenados por nombre, marca e id.
func (uc *ListProductsUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p))
	}
	return out, nil
}
