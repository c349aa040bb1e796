package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el histórico de
// movimientos de stock.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error)
	// SumIntake suma los movimientos INTAKE de un SKU: el total jamás ingresado.
	SumIntake(shopID, productID string) (decimal.Decimal, error)
}
