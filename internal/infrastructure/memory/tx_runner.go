package memory

import (
	"context"

	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// TxRunner implementa sales.TxRunner y catalog.TxRunner sobre Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run toma el candado exclusivo, ejecuta fn y confirma si fn retorna nil y el contexto
// sigue vivo. En cualquier otro caso (error, panic, cancelación) restaura la instantánea.
func (t *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snap := t.s.snapshot()
	committed := false
	defer func() {
		if !committed {
			t.s.restore(snap)
		}
	}()

	if err := fn(&ProductRepo{s: t.s, inTx: true}, &SaleRepo{s: t.s, inTx: true}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}
