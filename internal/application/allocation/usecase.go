package allocation

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

// UseCase maneja el registro de asignaciones tienda → intermediario:
// asignar mercancía, devolverla a bodega y consultar lo pendiente.
// Es la única autoridad sobre "cuánto de este SKU tiene el intermediario X".
type UseCase struct {
	txRunner    TxRunner
	allocRepo   repository.AllocationRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	allocRepo repository.AllocationRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		allocRepo:   allocRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// AssignInput entrada para Assign.
type AssignInput struct {
	ShopID         string
	ProductID      string
	IntermediaryID string
	Quantity       decimal.Decimal
	AssignedBy     string // UserID del admin que asigna
}

// Assign entrega mercancía de la bodega a un intermediario, en una transacción:
// verifica stock suficiente, incrementa (o crea) la asignación del par
// (producto, intermediario) y descuenta la bodega. Re-asignar al mismo par
// nunca duplica: suma sobre la asignación activa existente.
//
// El orden de los pasos sigue la regla «lo que puede fallar primero»: el
// decremento condicional de stock va antes de tocar la asignación, así un
// fallo por stock insuficiente no deja nada a medias.
func (uc *UseCase) Assign(ctx context.Context, in AssignInput) (*entity.Allocation, error) {
	if in.ShopID == "" || in.ProductID == "" || in.IntermediaryID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validaciones de solo lectura fuera de la tx
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil || product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ShopID != in.ShopID {
		return nil, domain.ErrForbidden
	}
	intermediary, err := uc.userRepo.GetByID(in.IntermediaryID)
	if err != nil || intermediary == nil {
		return nil, domain.ErrUserNotFound
	}
	if intermediary.Role != entity.RoleAgente {
		return nil, fmt.Errorf("%w: el usuario %s no es agente", domain.ErrInvalidInput, in.IntermediaryID)
	}

	now := time.Now()
	var result *entity.Allocation
	err = uc.txRunner.RunAllocation(ctx, func(
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Descuento condicional: falla con ErrInsufficientStock sin mutar nada
		if err := stockRepo.AdjustIf(in.ShopID, in.ProductID, in.Quantity.Neg()); err != nil {
			return fmt.Errorf("asignar producto %s: %w", in.ProductID, err)
		}

		existing, err := allocRepo.GetActiveForUpdate(in.ProductID, in.IntermediaryID)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Assigned = existing.Assigned.Add(in.Quantity)
			existing.Remaining = existing.Remaining.Add(in.Quantity)
			existing.UpdatedAt = now
			if err := allocRepo.Update(existing); err != nil {
				return err
			}
			result = existing
		} else {
			result = &entity.Allocation{
				ID:             uuid.New().String(),
				ShopID:         in.ShopID,
				ProductID:      in.ProductID,
				IntermediaryID: in.IntermediaryID,
				Assigned:       in.Quantity,
				Remaining:      in.Quantity,
				Status:         entity.AllocationStatusAssigned,
				AssignedBy:     in.AssignedBy,
				AssignedAt:     now,
				UpdatedAt:      now,
			}
			if err := allocRepo.Create(result); err != nil {
				return err
			}
		}

		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ReferenceID: result.ID,
			ShopID:      in.ShopID,
			ProductID:   in.ProductID,
			Type:        entity.MovementTypeAssign,
			Quantity:    in.Quantity.Neg(),
			CreatedAt:   now,
			CreatedBy:   in.AssignedBy,
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReturnToShop devuelve mercancía del intermediario a la bodega, en una
// transacción: verifica remaining suficiente, descuenta la asignación (si llega
// a cero queda en status returned) y acredita la bodega al final (paso que no
// puede fallar).
func (uc *UseCase) ReturnToShop(ctx context.Context, allocationID string, quantity decimal.Decimal, actorID string) (*entity.Allocation, error) {
	if allocationID == "" || !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var result *entity.Allocation
	err := uc.txRunner.RunAllocation(ctx, func(
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error {
		alloc, err := allocRepo.GetByIDForUpdate(allocationID)
		if err != nil {
			return err
		}
		if alloc == nil {
			return fmt.Errorf("%w: %s", domain.ErrAllocationNotFound, allocationID)
		}
		if alloc.Remaining.LessThan(quantity) {
			return fmt.Errorf("%w: remaining %s, solicitado %s (asignación %s)",
				domain.ErrInsufficientAllocation, alloc.Remaining, quantity, allocationID)
		}

		alloc.Remaining = alloc.Remaining.Sub(quantity)
		if alloc.Remaining.IsZero() {
			alloc.Status = entity.AllocationStatusReturned
			alloc.ReturnedAt = &now
		}
		alloc.UpdatedAt = now
		if err := allocRepo.Update(alloc); err != nil {
			return err
		}

		// Acreditar bodega: incremento, nunca puede fallar por negatividad
		if err := stockRepo.AdjustIf(alloc.ShopID, alloc.ProductID, quantity); err != nil {
			return err
		}

		mov := &entity.StockMovement{
			ID:          uuid.New().String(),
			ReferenceID: alloc.ID,
			ShopID:      alloc.ShopID,
			ProductID:   alloc.ProductID,
			Type:        entity.MovementTypeReturn,
			Quantity:    quantity,
			CreatedAt:   now,
			CreatedBy:   actorID,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		result = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetRemaining devuelve cuánto tiene pendiente el intermediario de un producto
// (cero si no hay asignación activa).
func (uc *UseCase) GetRemaining(productID, intermediaryID string) (decimal.Decimal, error) {
	alloc, err := uc.allocRepo.GetActive(productID, intermediaryID)
	if err != nil {
		return decimal.Zero, err
	}
	if alloc == nil {
		return decimal.Zero, nil
	}
	return alloc.Remaining, nil
}

// ListByIntermediary lista las asignaciones de un intermediario.
func (uc *UseCase) ListByIntermediary(intermediaryID string, limit, offset int) ([]*entity.Allocation, error) {
	return uc.allocRepo.ListByIntermediary(intermediaryID, limit, offset)
}
