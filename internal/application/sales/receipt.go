package sales

import (
	"context"
	"fmt"

	"github.com/Chars502/ferreteria-kairos/internal/domain"
	"github.com/Chars502/ferreteria-kairos/internal/domain/repository"
)

// ReceiptUseCase genera el recibo PDF de una venta ya confirmada.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	generator   ReceiptGenerator
	storeName   string
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	generator ReceiptGenerator,
	storeName string,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		generator:   generator,
		storeName:   storeName,
	}
}

// Receipt devuelve (pdfBytes, filename) o domain.ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, saleID string) ([]byte, string, error) {
	// ── 1. Cabecera ───────────────────────────────────────────────────────────
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Líneas + datos del producto ────────────────────────────────────────
	lines, err := uc.saleRepo.GetLines(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("recibo: obtener líneas: %w", err)
	}
	enriched := make([]ReceiptLine, 0, len(lines))
	for _, l := range lines {
		rl := ReceiptLine{SaleLine: *l, ProductName: "Producto " + l.ProductID}
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("recibo: obtener producto %s: %w", l.ProductID, err)
		}
		if p != nil {
			rl.ProductName = p.Name
			rl.Brand = p.Brand
			rl.Unit = p.Unit
		}
		enriched = append(enriched, rl)
	}

	// ── 3. Vendedor ───────────────────────────────────────────────────────────
	seller := sale.UserID
	if uc.userRepo != nil {
		u, err := uc.userRepo.GetByID(ctx, sale.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("recibo: obtener vendedor: %w", err)
		}
		if u != nil {
			seller = u.Name
		}
	}

	pdfBytes, err := uc.generator.GenerateReceiptPDF(ctx, ReceiptData{
		StoreName:  uc.storeName,
		Sale:       sale,
		SellerName: seller,
		Lines:      enriched,
	})
	if err != nil {
		return nil, "", fmt.Errorf("recibo: generación fallida: %w", err)
	}
	short := sale.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("recibo_%s.pdf", short), nil
}
