package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// MutatorUseCase es la primitiva atómica de mutación del stock de tienda.
// Todo incremento/decremento de la cantidad en bodega pasa por aquí; el
// decremento es condicional (nunca deja la cantidad negativa).
type MutatorUseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRepository
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewMutatorUseCase construye el caso de uso.
func NewMutatorUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) *MutatorUseCase {
	return &MutatorUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
	}
}

// Adjust aplica delta (con signo) al stock de (shopID, productID).
// Precondición: si delta < 0, la cantidad resultante debe quedar >= 0; si no,
// retorna ErrInsufficientStock sin efecto parcial. Sin más efectos colaterales
// que la fila de stock.
//
// Es la superficie exportada del ajuste condicional. Las mutaciones de venta y
// cancelación usan la misma primitiva AdjustIf, pero vía los repositorios
// atados a su transacción; este método opera sobre el pool y existe para
// callers fuera de una transacción (y para ejercitar el contrato en tests).
func (uc *MutatorUseCase) Adjust(ctx context.Context, shopID, productID string, delta decimal.Decimal) error {
	if shopID == "" || productID == "" || delta.IsZero() {
		return domain.ErrInvalidInput
	}
	if err := uc.stockRepo.AdjustIf(shopID, productID, delta); err != nil {
		return fmt.Errorf("ajustar stock producto %s: %w", productID, err)
	}
	return nil
}

// Intake registra una entrada de mercancía: suma al stock y deja el movimiento
// INTAKE en el libro (de ahí sale el total jamás ingresado). Una transacción.
func (uc *MutatorUseCase) Intake(ctx context.Context, shopID, productID, userID string, quantity decimal.Decimal, notes string) error {
	if shopID == "" || productID == "" {
		return domain.ErrInvalidInput
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return domain.ErrNotFound
	}
	if product.ShopID != shopID {
		return domain.ErrForbidden
	}

	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		if err := stockRepo.AdjustIf(shopID, productID, quantity); err != nil {
			return err
		}
		mov := &entity.StockMovement{
			ID:        uuid.New().String(),
			ShopID:    shopID,
			ProductID: productID,
			Type:      entity.MovementTypeIntake,
			Quantity:  quantity,
			Notes:     notes,
			CreatedAt: now,
			CreatedBy: userID,
		}
		return movRepo.Create(mov)
	})
}

// GetOnHand devuelve la cantidad en bodega de un SKU (cero si nunca se stockeó).
func (uc *MutatorUseCase) GetOnHand(shopID, productID string) (decimal.Decimal, error) {
	s, err := uc.stockRepo.Get(shopID, productID)
	if err != nil {
		return decimal.Zero, err
	}
	if s == nil {
		return decimal.Zero, nil
	}
	return s.Quantity, nil
}

// ListMovements devuelve el histórico de movimientos de un producto.
func (uc *MutatorUseCase) ListMovements(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByProduct(productID, limit, offset)
}
