package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// OrderItemRequest una línea de la orden. UnitPrice en cero usa el precio
// vigente del catálogo; si viene, se congela tal cual en la línea.
type OrderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	PaymentMethod string             `json:"payment_method"`
	Items         []OrderItemRequest `json:"items"`
}

// CancelOrderRequest body para POST /api/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// OrderItemResponse una línea persistida.
type OrderItemResponse struct {
	ProductID     string          `json:"product_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit,omitempty"`
	UnitSize      decimal.Decimal `json:"unit_size,omitempty"`
	ViaAllocation bool            `json:"via_allocation"`
}

// OrderResponse representación HTTP de una orden.
type OrderResponse struct {
	ID                 string              `json:"id"`
	Number             int64               `json:"number"`
	ShopID             string              `json:"shop_id"`
	SellerID           string              `json:"seller_id"`
	Status             string              `json:"status"`
	PaymentMethod      string              `json:"payment_method"`
	Total              decimal.Decimal     `json:"total"`
	Items              []OrderItemResponse `json:"items"`
	CompletedAt        *time.Time          `json:"completed_at,omitempty"`
	CancelledAt        *time.Time          `json:"cancelled_at,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ToOrderResponse mapea orden + líneas al DTO.
func ToOrderResponse(o *entity.Order, items []*entity.OrderItem) *OrderResponse {
	if o == nil {
		return nil
	}
	resp := &OrderResponse{
		ID:                 o.ID,
		Number:             o.Number,
		ShopID:             o.ShopID,
		SellerID:           o.SellerID,
		Status:             o.Status,
		PaymentMethod:      o.PaymentMethod,
		Total:              o.Total,
		CompletedAt:        o.CompletedAt,
		CancelledAt:        o.CancelledAt,
		CancellationReason: o.CancellationReason,
		CreatedAt:          o.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			Price:         it.Price,
			Unit:          it.Unit,
			UnitSize:      it.UnitSize,
			ViaAllocation: it.ViaAllocation,
		})
	}
	return resp
}
