package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/dto"
	"github.com/tu-usuario/mercado-stock/internal/application/stock"
)

// StockHandler expone la bodega: entradas de mercancía, cantidad en mano
// y el histórico de movimientos por producto.
type StockHandler struct {
	stockUseCase *stock.MutatorUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(stockUseCase *stock.MutatorUseCase) *StockHandler {
	return &StockHandler{stockUseCase: stockUseCase}
}

// Intake registra entrada de mercancía a la bodega.
// POST /api/stock/intake
func (h *StockHandler) Intake(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	userID := GetUserID(c)
	if shopID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	var req dto.IntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	if err := h.stockUseCase.Intake(c.Context(), shopID, req.ProductID, userID, req.Quantity, req.Notes); err != nil {
		return respondError(c, err)
	}
	quantity, err := h.stockUseCase.GetOnHand(shopID, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockResponse{
		ShopID:    shopID,
		ProductID: req.ProductID,
		Quantity:  quantity,
	})
}

// GetOnHand devuelve la cantidad en bodega de un producto (cero si nunca se stockeó).
// GET /api/stock/:productId
func (h *StockHandler) GetOnHand(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	productID := c.Params("productId")
	quantity, err := h.stockUseCase.GetOnHand(shopID, productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ShopID:    shopID,
		ProductID: productID,
		Quantity:  quantity,
	})
}

// ListMovements devuelve el histórico de movimientos de un producto.
// GET /api/stock/:productId/movements
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("productId")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	movements, err := h.stockUseCase.ListMovements(productID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp = append(resp, dto.MovementResponse{
			ID:          m.ID,
			ReferenceID: m.ReferenceID,
			ProductID:   m.ProductID,
			Type:        m.Type,
			Quantity:    m.Quantity,
			Notes:       m.Notes,
			CreatedAt:   m.CreatedAt,
			CreatedBy:   m.CreatedBy,
		})
	}
	return c.JSON(resp)
}
