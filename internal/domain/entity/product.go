package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una tienda.
// El stock disponible se maneja aparte en Stock; las cantidades aceptan
// fracciones (ej. kilogramos), por eso decimal y no int.
type Product struct {
	ID        string
	ShopID    string
	Name      string
	Price     decimal.Decimal // precio de venta vigente; las órdenes congelan su propio precio
	Unit      string          // kg, litro, unidad...
	UnitSize  decimal.Decimal // tamaño de la presentación (ej. 0.5 para bolsa de medio kilo)
	CreatedAt time.Time
	UpdatedAt time.Time
}
