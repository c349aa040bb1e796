package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cantidad en bodega de un producto en una tienda.
// Invariante: Quantity >= 0 siempre; solo se muta vía StockRepository.AdjustIf.
type Stock struct {
	ShopID    string
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
