package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/catalog"
	"github.com/tu-usuario/mercado-stock/internal/application/dto"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// CatalogHandler CRUD mínimo de tiendas y productos.
type CatalogHandler struct {
	catalogUseCase *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalogUseCase *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{catalogUseCase: catalogUseCase}
}

// CreateShop crea una tienda con el usuario autenticado como dueño.
// POST /api/shops
func (h *CatalogHandler) CreateShop(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var req dto.CreateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	shop, err := h.catalogUseCase.CreateShop(userID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShopResponse(shop))
}

// GetShop devuelve una tienda por ID.
// GET /api/shops/:id
func (h *CatalogHandler) GetShop(c *fiber.Ctx) error {
	shop, err := h.catalogUseCase.GetShop(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toShopResponse(shop))
}

// CreateProduct crea un producto en el catálogo de la tienda del token.
// POST /api/products
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	product, err := h.catalogUseCase.CreateProduct(shopID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// GetProduct devuelve un producto por ID.
// GET /api/products/:id
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalogUseCase.GetProduct(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toProductResponse(product))
}

// ListProducts lista el catálogo de la tienda del token.
// GET /api/products
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	products, err := h.catalogUseCase.ListProducts(shopID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return c.JSON(resp)
}

func toShopResponse(s *entity.Shop) *dto.ShopResponse {
	if s == nil {
		return nil
	}
	return &dto.ShopResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:       p.ID,
		ShopID:   p.ShopID,
		Name:     p.Name,
		Price:    p.Price,
		Unit:     p.Unit,
		UnitSize: p.UnitSize,
	}
}
