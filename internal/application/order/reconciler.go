package order

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

// ReconcilerUseCase orquesta los efectos de cantidad de una orden sobre los
// tres pools (bodega, asignado al intermediario, vendido): decide por línea
// qué pool descuenta al aplicar y qué pool acredita al revertir.
//
// El camino de consumo se decide una sola vez, al aplicar, según el rol del
// vendedor, y queda grabado en la línea (ViaAllocation + AllocationID).
// Revertir siempre lee ese hecho persistido; jamás lo infiere a posteriori.
type ReconcilerUseCase struct {
	txRunner    TxRunner
	allocMut    AllocationMutator
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewReconcilerUseCase construye el caso de uso.
func NewReconcilerUseCase(
	txRunner TxRunner,
	allocMut AllocationMutator,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *ReconcilerUseCase {
	return &ReconcilerUseCase{
		txRunner:    txRunner,
		allocMut:    allocMut,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// LineInput una línea del borrador de orden.
type LineInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal // cero = congelar el precio vigente del catálogo
}

// ApplyInput entrada para Apply.
type ApplyInput struct {
	ShopID        string
	SellerID      string
	PaymentMethod string // etiqueta opaca para este servicio
	Items         []LineInput
}

// Apply aplica una venta: por cada línea descuenta del pool correcto según el
// rol del actor (agente → su asignación; vendedor o admin → stock directo de
// la tienda) y persiste la orden en completed con el camino grabado por línea.
// Cualquier línea fallida aborta la orden entera (rollback de la tx) y el
// error reporta el producto ofensor; la orden nunca queda completed a medias.
func (uc *ReconcilerUseCase) Apply(ctx context.Context, in ApplyInput) (*entity.Order, []*entity.OrderItem, error) {
	if in.ShopID == "" || in.SellerID == "" || len(in.Items) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	seller, err := uc.userRepo.GetByID(in.SellerID)
	if err != nil || seller == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	if seller.ShopID != in.ShopID {
		return nil, nil, domain.ErrForbidden
	}
	viaAllocation := seller.Role == entity.RoleAgente

	// Validar productos y congelar precios (fuera de la tx, solo lectura)
	productsByID := make(map[string]*entity.Product)
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || !item.Quantity.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		if item.UnitPrice.LessThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil || product == nil {
			return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, item.ProductID)
		}
		if product.ShopID != in.ShopID {
			return nil, nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.IsZero() {
			in.Items[i].UnitPrice = product.Price
		}
	}

	now := time.Now()
	orderID := uuid.New().String()
	var ord *entity.Order
	var lines []*entity.OrderItem

	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// El runner reintenta el callback tras un rollback por conflicto:
		// lo acumulado en el intento abortado no debe sobrevivir.
		ord, lines = nil, nil

		// Consecutivo por tienda desde el contador dedicado
		number, err := orderRepo.NextNumber(in.ShopID)
		if err != nil {
			return err
		}

		var total decimal.Decimal
		for _, item := range in.Items {
			product := productsByID[item.ProductID]
			line := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.UnitPrice,
				Unit:      product.Unit,
				UnitSize:  product.UnitSize,
			}

			if viaAllocation {
				alloc, err := uc.allocMut.ConsumeInTx(allocRepo, item.ProductID, in.SellerID, item.Quantity, now)
				if err != nil {
					return err
				}
				line.ViaAllocation = true
				line.AllocationID = alloc.ID
			} else {
				if err := stockRepo.AdjustIf(in.ShopID, item.ProductID, item.Quantity.Neg()); err != nil {
					return fmt.Errorf("vender producto %s: %w", item.ProductID, err)
				}
				mov := &entity.StockMovement{
					ID:          uuid.New().String(),
					ReferenceID: orderID,
					ShopID:      in.ShopID,
					ProductID:   item.ProductID,
					Type:        entity.MovementTypeSale,
					Quantity:    item.Quantity.Neg(),
					CreatedAt:   now,
					CreatedBy:   in.SellerID,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}

			total = total.Add(item.Quantity.Mul(item.UnitPrice))
			lines = append(lines, line)
		}

		ord = &entity.Order{
			ID:            orderID,
			Number:        number,
			ShopID:        in.ShopID,
			SellerID:      in.SellerID,
			Status:        entity.OrderStatusCompleted,
			PaymentMethod: in.PaymentMethod,
			Total:         total,
			CompletedAt:   &now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		return orderRepo.Create(ord, lines)
	})
	if err != nil {
		return nil, nil, err
	}
	return ord, lines, nil
}

// Reverse cancela una orden completed y repone cada línea por el camino que
// quedó grabado al aplicar: línea vía asignación → reabre la asignación;
// línea directa → acredita la bodega. Cancelar dos veces, o cancelar una
// draft, es ErrInvalidTransition sin ninguna mutación (la cancelación real
// ocurre exactamente una vez).
func (uc *ReconcilerUseCase) Reverse(ctx context.Context, orderID, reason, actorID string) (*entity.Order, []*entity.OrderItem, error) {
	if orderID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var ord *entity.Order
	var lines []*entity.OrderItem

	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		o, items, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, orderID)
		}
		if o.Status != entity.OrderStatusCompleted {
			return fmt.Errorf("%w: la orden %s está %s, solo se cancela una completed",
				domain.ErrInvalidTransition, orderID, o.Status)
		}

		for _, item := range items {
			if item.ViaAllocation {
				if _, err := uc.allocMut.RestoreInTx(allocRepo, item.AllocationID, item.Quantity, now); err != nil {
					return err
				}
			} else {
				if err := stockRepo.AdjustIf(o.ShopID, item.ProductID, item.Quantity); err != nil {
					return err
				}
				mov := &entity.StockMovement{
					ID:          uuid.New().String(),
					ReferenceID: o.ID,
					ShopID:      o.ShopID,
					ProductID:   item.ProductID,
					Type:        entity.MovementTypeCancel,
					Quantity:    item.Quantity,
					Notes:       reason,
					CreatedAt:   now,
					CreatedBy:   actorID,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
		}

		o.Status = entity.OrderStatusCancelled
		o.CancelledAt = &now
		o.CancellationReason = reason
		o.UpdatedAt = now
		if err := orderRepo.UpdateStatus(o); err != nil {
			return err
		}
		ord = o
		lines = items
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ord, lines, nil
}

// Get devuelve una orden con sus líneas.
func (uc *ReconcilerUseCase) Get(orderID string) (*entity.Order, []*entity.OrderItem, error) {
	o, items, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if o == nil {
		return nil, nil, domain.ErrNotFound
	}
	return o, items, nil
}

// ListBySeller lista las órdenes de un vendedor/agente.
func (uc *ReconcilerUseCase) ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error) {
	return uc.orderRepo.ListBySeller(sellerID, limit, offset)
}
