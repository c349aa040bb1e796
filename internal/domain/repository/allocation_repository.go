package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// AllocationRepository define el puerto de persistencia para asignaciones
// tienda → intermediario. A lo sumo una asignación activa por
// (ProductID, IntermediaryID); las lecturas "ForUpdate" bloquean la fila.
type AllocationRepository interface {
	GetByID(id string) (*entity.Allocation, error)
	GetByIDForUpdate(id string) (*entity.Allocation, error)
	// GetActive devuelve la asignación con status=assigned del par, o nil si no hay.
	GetActive(productID, intermediaryID string) (*entity.Allocation, error)
	GetActiveForUpdate(productID, intermediaryID string) (*entity.Allocation, error)
	Create(a *entity.Allocation) error
	Update(a *entity.Allocation) error
	ListByIntermediary(intermediaryID string, limit, offset int) ([]*entity.Allocation, error)
	// SumRemaining suma el remaining de todas las asignaciones de un SKU
	// (cualquier status). Usado por el verificador de conservación.
	SumRemaining(shopID, productID string) (decimal.Decimal, error)
}
