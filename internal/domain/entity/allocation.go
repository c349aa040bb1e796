package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una asignación.
const (
	AllocationStatusAssigned = "assigned" // tiene cantidad pendiente por vender
	AllocationStatusSold     = "sold"     // remaining llegó a 0 vendiendo
	AllocationStatusReturned = "returned" // remaining llegó a 0 por devolución explícita
)

// Allocation es la entrada de libro mayor que representa mercancía entregada
// por una tienda a un intermediario (agente). A lo sumo una asignación activa
// por par (ProductID, IntermediaryID): re-asignar incrementa la existente.
//
// Invariantes: 0 <= Remaining <= Assigned; Assigned solo crece (las devoluciones
// reducen Remaining, nunca Assigned). Status == sold ⟺ Remaining == 0 por ventas;
// Status == returned ⟺ se vació con una devolución a la tienda.
type Allocation struct {
	ID             string
	ShopID         string
	ProductID      string
	IntermediaryID string // UserID del agente que recibe la mercancía
	Assigned       decimal.Decimal
	Remaining      decimal.Decimal
	Status         string
	AssignedBy     string // UserID del admin que asignó
	AssignedAt     time.Time
	SoldAt         *time.Time
	ReturnedAt     *time.Time
	UpdatedAt      time.Time
}

// IsActive indica si la asignación todavía puede consumirse (ventas del agente).
func (a *Allocation) IsActive() bool {
	return a.Status == AllocationStatusAssigned
}
