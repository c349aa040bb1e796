package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIntake     = "INTAKE"     // entrada de mercancía a la tienda
	MovementTypeAssign     = "ASSIGN"     // salida de bodega hacia un agente
	MovementTypeReturn     = "RETURN"     // devolución de agente a bodega
	MovementTypeSale       = "SALE"       // venta directa desde bodega
	MovementTypeCancel     = "CANCEL"     // reverso de venta directa
	MovementTypeAdjustment = "ADJUSTMENT" // ajuste manual
)

// StockMovement es el registro histórico de cada mutación del stock de tienda.
// La suma de movimientos INTAKE de un SKU es el "total jamás ingresado" que usa
// el verificador de conservación.
type StockMovement struct {
	ID          string
	ReferenceID string // orden, asignación o nota de ajuste que originó el movimiento
	ShopID      string
	ProductID   string
	Type        string
	Quantity    decimal.Decimal // positivo entradas, negativo salidas
	Notes       string
	CreatedAt   time.Time
	CreatedBy   string // UserID
}
