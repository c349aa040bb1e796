package repository

import "github.com/tu-usuario/mercado-stock/internal/domain/entity"

// ShopRepository define el puerto de persistencia de tiendas.
type ShopRepository interface {
	Create(shop *entity.Shop) error
	GetByID(id string) (*entity.Shop, error)
	List(limit, offset int) ([]*entity.Shop, error)
}
