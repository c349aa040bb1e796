package repository

import "github.com/tu-usuario/mercado-stock/internal/domain/entity"

// ProductRepository define el puerto de catálogo (DIP). Este servicio solo
// necesita el lookup {productId, shopId, unit, unitSize}; el CRUD completo de
// catálogo vive en otro sistema.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	ListByShop(shopID string, limit, offset int) ([]*entity.Product, error)
}
