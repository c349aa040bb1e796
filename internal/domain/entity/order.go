package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden. El único camino es draft → completed → cancelled;
// una draft descartada se borra sin tocar stock (nunca pasa a cancelled).
const (
	OrderStatusDraft     = "draft"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Métodos de pago: etiqueta opaca para este servicio (la semántica de cobro
// vive en otro sistema).
const (
	PaymentCash        = "cash"
	PaymentCard        = "card"
	PaymentInstallment = "installment"
)

// Order representa la cabecera de una venta (directa o vía agente).
type Order struct {
	ID                 string
	Number             int64 // consecutivo por tienda, emitido por contador atómico
	ShopID             string
	SellerID           string // UserID del actor que vendió (agente o vendedor)
	Status             string
	PaymentMethod      string
	Total              decimal.Decimal
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderItem representa una línea de una orden. Price es una foto del precio
// al momento de la venta, no una referencia viva al producto.
//
// ViaAllocation registra en el momento de Apply si la línea consumió una
// asignación (venta de agente) o stock directo de tienda; Reverse restaura por
// el mismo camino sin inferir nada a posteriori.
type OrderItem struct {
	ID            string
	OrderID       string
	ProductID     string
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	Unit          string
	UnitSize      decimal.Decimal
	ViaAllocation bool
	AllocationID  string // vacío si la línea salió del stock directo
}
