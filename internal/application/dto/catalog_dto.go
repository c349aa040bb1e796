package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateShopRequest body para POST /api/shops.
type CreateShopRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// ShopResponse representación HTTP de una tienda.
type ShopResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit"`
	UnitSize decimal.Decimal `json:"unit_size"`
}

// ProductResponse representación HTTP de un producto.
type ProductResponse struct {
	ID       string          `json:"id"`
	ShopID   string          `json:"shop_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Unit     string          `json:"unit"`
	UnitSize decimal.Decimal `json:"unit_size"`
}
