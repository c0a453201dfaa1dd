// Package memory implementa los repositorios en memoria (tests y DB_DRIVER=memory).
//
// Una transacción toma el candado exclusivo del Store durante toda su vida,
// así las transacciones quedan serializadas igual que con bloqueo de filas.
// El rollback restaura una instantánea tomada al comenzar.
package memory

import (
	"sync"

	"github.com/Chars502/ferreteria-kairos/internal/domain/entity"
)

// Store estado compartido de productos, ventas y usuarios.
type Store struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
	sales    map[string]*entity.Sale
	saleIDs  []string // orden de inserción
	lines    map[string][]*entity.SaleLine
	users    map[string]*entity.User
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		sales:    make(map[string]*entity.Sale),
		lines:    make(map[string][]*entity.SaleLine),
		users:    make(map[string]*entity.User),
	}
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

type snapshot struct {
	products map[string]*entity.Product
	sales    map[string]*entity.Sale
	saleIDs  []string
	lines    map[string][]*entity.SaleLine
}

// Las entidades guardadas nunca se mutan en sitio (se reemplazan por copias),
// por eso basta con copiar los mapas.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		products: make(map[string]*entity.Product, len(s.products)),
		sales:    make(map[string]*entity.Sale, len(s.sales)),
		saleIDs:  append([]string(nil), s.saleIDs...),
		lines:    make(map[string][]*entity.SaleLine, len(s.lines)),
	}
	for k, v := range s.products {
		snap.products[k] = v
	}
	for k, v := range s.sales {
		snap.sales[k] = v
	}
	for k, v := range s.lines {
		snap.lines[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.products = snap.products
	s.sales = snap.sales
	s.saleIDs = snap.saleIDs
	s.lines = snap.lines
}

// guard toma el candado salvo que el repositorio corra dentro de una tx (ya lo tiene).
func (s *Store) guard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rguard(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}
