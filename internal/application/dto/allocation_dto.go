package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// AssignRequest body para POST /api/allocations (asignar mercancía a un agente).
type AssignRequest struct {
	ProductID      string          `json:"product_id"`
	IntermediaryID string          `json:"intermediary_id"`
	Quantity       decimal.Decimal `json:"quantity"`
}

// ReturnRequest body para POST /api/allocations/:id/return (devolver a bodega).
type ReturnRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AllocationResponse representación HTTP de una asignación.
type AllocationResponse struct {
	ID             string          `json:"id"`
	ShopID         string          `json:"shop_id"`
	ProductID      string          `json:"product_id"`
	IntermediaryID string          `json:"intermediary_id"`
	Assigned       decimal.Decimal `json:"assigned"`
	Remaining      decimal.Decimal `json:"remaining"`
	Status         string          `json:"status"`
	AssignedBy     string          `json:"assigned_by"`
	AssignedAt     time.Time       `json:"assigned_at"`
	SoldAt         *time.Time      `json:"sold_at,omitempty"`
	ReturnedAt     *time.Time      `json:"returned_at,omitempty"`
}

// ToAllocationResponse mapea la entidad al DTO.
func ToAllocationResponse(a *entity.Allocation) *AllocationResponse {
	if a == nil {
		return nil
	}
	return &AllocationResponse{
		ID:             a.ID,
		ShopID:         a.ShopID,
		ProductID:      a.ProductID,
		IntermediaryID: a.IntermediaryID,
		Assigned:       a.Assigned,
		Remaining:      a.Remaining,
		Status:         a.Status,
		AssignedBy:     a.AssignedBy,
		AssignedAt:     a.AssignedAt,
		SoldAt:         a.SoldAt,
		ReturnedAt:     a.ReturnedAt,
	}
}
