package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// StockRepository define el puerto para consultar/mutar stock por tienda+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(shopID, productID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(shopID, productID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	// AdjustIf aplica delta (con signo) de forma condicional: solo si la cantidad
	// resultante queda >= 0. Si el decremento dejaría la cantidad negativa retorna
	// domain.ErrInsufficientStock sin mutar nada.
	AdjustIf(shopID, productID string, delta decimal.Decimal) error
}
