package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// ConsumeInTx descuenta remaining por una venta del agente, usando el
// repositorio atado a la transacción del caller (el reconciliador de órdenes).
// Requiere asignación activa (status assigned) con remaining suficiente; al
// llegar exactamente a cero pasa a sold y estampa soldAt.
func (uc *UseCase) ConsumeInTx(
	allocRepo repository.AllocationRepository,
	productID, intermediaryID string,
	quantity decimal.Decimal,
	now time.Time,
) (*entity.Allocation, error) {
	alloc, err := allocRepo.GetActiveForUpdate(productID, intermediaryID)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, fmt.Errorf("%w: producto %s, intermediario %s",
			domain.ErrAllocationNotFound, productID, intermediaryID)
	}
	if alloc.Remaining.LessThan(quantity) {
		return nil, fmt.Errorf("%w: remaining %s, solicitado %s (producto %s)",
			domain.ErrInsufficientAllocation, alloc.Remaining, quantity, productID)
	}

	alloc.Remaining = alloc.Remaining.Sub(quantity)
	if alloc.Remaining.IsZero() {
		alloc.Status = entity.AllocationStatusSold
		alloc.SoldAt = &now
	}
	alloc.UpdatedAt = now
	if err := allocRepo.Update(alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}

// RestoreInTx repone remaining al cancelar una orden, usando el repositorio
// atado a la transacción del caller. Una asignación sold o returned vuelve a
// assigned (se reabre) para que el agente pueda vender lo repuesto. Nunca crea
// una asignación que no existe: la ausencia es un error de integridad
// (ErrAllocationNotFound), no un caso silencioso.
//
// Si la asignación original quedó returned y el par (producto, intermediario)
// ya tiene OTRA asignación activa (el índice único parcial admite solo una),
// la cantidad se acredita sobre la activa, como hace Assign al re-asignar.
//
// La devolución operativa agente → bodega NO pasa por aquí: esa es
// UseCase.ReturnToShop, que además acredita el stock de la tienda.
func (uc *UseCase) RestoreInTx(
	allocRepo repository.AllocationRepository,
	allocationID string,
	quantity decimal.Decimal,
	now time.Time,
) (*entity.Allocation, error) {
	alloc, err := allocRepo.GetByIDForUpdate(allocationID)
	if err != nil {
		return nil, err
	}
	if alloc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrAllocationNotFound, allocationID)
	}

	if alloc.Status == entity.AllocationStatusReturned {
		active, err := allocRepo.GetActiveForUpdate(alloc.ProductID, alloc.IntermediaryID)
		if err != nil {
			return nil, err
		}
		if active != nil && active.ID != alloc.ID {
			// Reabrir la original chocaría con la activa: se acredita ahí
			active.Assigned = active.Assigned.Add(quantity)
			active.Remaining = active.Remaining.Add(quantity)
			active.UpdatedAt = now
			if err := allocRepo.Update(active); err != nil {
				return nil, err
			}
			return active, nil
		}
	}

	newRemaining := alloc.Remaining.Add(quantity)
	if newRemaining.GreaterThan(alloc.Assigned) {
		// Reponer por encima de lo asignado rompería 0 <= remaining <= assigned
		return nil, fmt.Errorf("%w: reponer %s dejaría remaining %s > assigned %s (asignación %s)",
			domain.ErrInvalidTransition, quantity, newRemaining, alloc.Assigned, allocationID)
	}

	alloc.Remaining = newRemaining
	switch alloc.Status {
	case entity.AllocationStatusSold:
		alloc.Status = entity.AllocationStatusAssigned
		alloc.SoldAt = nil
	case entity.AllocationStatusReturned:
		alloc.Status = entity.AllocationStatusAssigned
		alloc.ReturnedAt = nil
	}
	alloc.UpdatedAt = now
	if err := allocRepo.Update(alloc); err != nil {
		return nil, err
	}
	return alloc, nil
}
