package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
type OrderRepository interface {
	// NextNumber emite el siguiente consecutivo de la tienda desde un contador
	// dedicado (UPDATE ... RETURNING), nunca con max+1 que pierde carreras.
	NextNumber(shopID string) (int64, error)
	Create(order *entity.Order, items []*entity.OrderItem) error
	GetByID(id string) (*entity.Order, []*entity.OrderItem, error)
	GetByIDForUpdate(id string) (*entity.Order, []*entity.OrderItem, error)
	// UpdateStatus persiste status, timestamps y razón de cancelación.
	UpdateStatus(order *entity.Order) error
	ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error)
	// SumSold suma las cantidades de líneas de órdenes completed (no cancelled)
	// de un SKU. Usado por el verificador de conservación.
	SumSold(shopID, productID string) (decimal.Decimal, error)
}
