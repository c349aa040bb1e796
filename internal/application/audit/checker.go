package audit

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// CheckerUseCase verifica la conservación de cantidad de un SKU:
//
//	enBodega + Σ remaining de asignaciones + vendidoFinalizado == total jamás ingresado
//
// donde vendidoFinalizado sale de las líneas de órdenes completed no
// cancelled, y el total ingresado de los movimientos INTAKE. Es una
// herramienta de auditoría/tests, nunca parte del camino caliente.
type CheckerUseCase struct {
	stockRepo repository.StockRepository
	allocRepo repository.AllocationRepository
	orderRepo repository.OrderRepository
	movRepo   repository.StockMovementRepository
}

// NewCheckerUseCase construye el verificador.
func NewCheckerUseCase(
	stockRepo repository.StockRepository,
	allocRepo repository.AllocationRepository,
	orderRepo repository.OrderRepository,
	movRepo repository.StockMovementRepository,
) *CheckerUseCase {
	return &CheckerUseCase{
		stockRepo: stockRepo,
		allocRepo: allocRepo,
		orderRepo: orderRepo,
		movRepo:   movRepo,
	}
}

// Report el desglose por pool de un SKU y si los pools conservan el total.
type Report struct {
	ShopID       string          `json:"shop_id"`
	ProductID    string          `json:"product_id"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Allocated    decimal.Decimal `json:"allocated"`     // Σ remaining
	Sold         decimal.Decimal `json:"sold"`          // órdenes completed no cancelled
	TotalStocked decimal.Decimal `json:"total_stocked"` // Σ movimientos INTAKE
	Delta        decimal.Decimal `json:"delta"`         // (onHand+allocated+sold) - totalStocked
	Consistent   bool            `json:"consistent"`
}

// Verify computa el balance de pools de un SKU. Delta distinto de cero señala
// cantidad perdida (negativo) o aparecida (positivo) respecto al ingresado.
func (uc *CheckerUseCase) Verify(ctx context.Context, shopID, productID string) (*Report, error) {
	onHand := decimal.Zero
	if s, err := uc.stockRepo.Get(shopID, productID); err != nil {
		return nil, err
	} else if s != nil {
		onHand = s.Quantity
	}

	allocated, err := uc.allocRepo.SumRemaining(shopID, productID)
	if err != nil {
		return nil, err
	}
	sold, err := uc.orderRepo.SumSold(shopID, productID)
	if err != nil {
		return nil, err
	}
	total, err := uc.movRepo.SumIntake(shopID, productID)
	if err != nil {
		return nil, err
	}

	delta := onHand.Add(allocated).Add(sold).Sub(total)
	return &Report{
		ShopID:       shopID,
		ProductID:    productID,
		OnHand:       onHand,
		Allocated:    allocated,
		Sold:         sold,
		TotalStocked: total,
		Delta:        delta,
		Consistent:   delta.IsZero(),
	}, nil
}
