package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRequest body para POST /api/stock/intake (entrada de mercancía).
type IntakeRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes,omitempty"`
}

// StockResponse cantidad en bodega de un SKU.
type StockResponse struct {
	ShopID    string          `json:"shop_id"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovementResponse una entrada del histórico de movimientos.
type MovementResponse struct {
	ID          string          `json:"id"`
	ReferenceID string          `json:"reference_id,omitempty"`
	ProductID   string          `json:"product_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}
