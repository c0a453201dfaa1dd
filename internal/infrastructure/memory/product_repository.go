package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementa repository.ProductRepository sobre Store.
type ProductRepo struct {
	s    *Store
	inTx bool
}

// GetByID retorna (nil, nil) si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.s.rguard(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// GetByNameAndBrandForUpdate fuera de tx no bloquea nada más allá de la lectura.
func (r *ProductRepo) GetByNameAndBrandForUpdate(_ context.Context, name, brand string) (*entity.Product, error) {
	defer r.s.rguard(r.inTx)()
	if p := r.findByNameAndBrand(name, brand); p != nil {
		return p.Clone(), nil
	}
	return nil, nil
}

func (r *ProductRepo) findByNameAndBrand(name, brand string) *entity.Product {
	for _, p := range r.s.products {
		if p.Name == name && p.Brand == brand {
			return p
		}
	}
	return nil
}

// LockByIDs devuelve copias de los productos encontrados; el candado lo tiene la tx.
func (r *ProductRepo) LockByIDs(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	defer r.s.rguard(r.inTx)()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out[id] = p.Clone()
		}
	}
	return out, nil
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.products[product.ID]; ok {
		return domain.ErrDuplicate
	}
	if r.findByNameAndBrand(product.Name, product.Brand) != nil {
		return domain.ErrDuplicate
	}
	r.s.products[product.ID] = product.Clone()
	return nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	defer r.s.guard(r.inTx)()
	if _, ok := r.s.products[product.ID]; !ok {
		return domain.ErrNotFound
	}
	if product.Quantity.IsNegative() {
		return domain.InvalidInput("quantity", "no puede ser negativa")
	}
	r.s.products[product.ID] = product.Clone()
	return nil
}

// DecrementStock descuenta amount si alcanza; nunca recorta a cero.
func (r *ProductRepo) DecrementStock(_ context.Context, id string, amount decimal.Decimal) (*entity.Product, error) {
	defer r.s.guard(r.inTx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	if amount.GreaterThan(p.Quantity) {
		return nil, &domain.InsufficientStockError{ProductID: id, Requested: amount, Available: p.Quantity}
	}
	next := p.Clone()
	next.Quantity = p.Quantity.Sub(amount)
	r.s.products[id] = next
	return next.Clone(), nil
}

// List ordenado por nombre, marca e id.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	defer r.s.rguard(r.inTx)()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
