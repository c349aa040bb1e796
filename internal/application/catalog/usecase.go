package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/application/dto"
	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// UseCase CRUD mínimo de tiendas y productos: lo justo para que el motor de
// stock tenga el lookup {productId, shopId, unit, unitSize}. El catálogo
// completo (categorías, búsqueda, imágenes) vive en otro sistema.
type UseCase struct {
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(shopRepo repository.ShopRepository, productRepo repository.ProductRepository) *UseCase {
	return &UseCase{shopRepo: shopRepo, productRepo: productRepo}
}

// CreateShop crea una tienda con el actor como dueño.
func (uc *UseCase) CreateShop(ownerID string, in dto.CreateShopRequest) (*entity.Shop, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	shop := &entity.Shop{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Address:   in.Address,
		Phone:     in.Phone,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.shopRepo.Create(shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// GetShop devuelve una tienda por ID.
func (uc *UseCase) GetShop(id string) (*entity.Shop, error) {
	shop, err := uc.shopRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, domain.ErrNotFound
	}
	return shop, nil
}

// CreateProduct crea un producto en el catálogo de la tienda.
func (uc *UseCase) CreateProduct(shopID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if shopID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	unitSize := in.UnitSize
	if unitSize.IsZero() {
		unitSize = decimal.NewFromInt(1)
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		ShopID:    shopID,
		Name:      in.Name,
		Price:     in.Price,
		Unit:      in.Unit,
		UnitSize:  unitSize,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct devuelve un producto por ID.
func (uc *UseCase) GetProduct(id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts lista el catálogo de una tienda.
func (uc *UseCase) ListProducts(shopID string, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.ListByShop(shopID, limit, offset)
}
