package repository

import "github.com/tu-usuario/mercado-stock/internal/domain/entity"

// UserRepository define el puerto de persistencia de usuarios (DIP).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndShop(email, shopID string) (*entity.User, error)
}
