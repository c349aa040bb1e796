package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/dto"
	"github.com/tu-usuario/mercado-stock/internal/application/order"
)

// OrderHandler expone el ciclo de vida de órdenes: crear (aplicar la venta),
// cancelar (revertir) y consultar.
type OrderHandler struct {
	orderUseCase *order.ReconcilerUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(orderUseCase *order.ReconcilerUseCase) *OrderHandler {
	return &OrderHandler{orderUseCase: orderUseCase}
}

// Create aplica una venta: descuenta del pool correcto según el rol del actor
// y deja la orden en completed. Todo o nada.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	userID := GetUserID(c)
	if shopID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "la orden requiere al menos una línea"})
	}
	items := make([]order.LineInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.LineInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	ord, lines, err := h.orderUseCase.Apply(c.Context(), order.ApplyInput{
		ShopID:        shopID,
		SellerID:      userID,
		PaymentMethod: req.PaymentMethod,
		Items:         items,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToOrderResponse(ord, lines))
}

// Cancel revierte una orden completed reponiendo cada línea por el camino
// grabado al aplicar. Cancelar dos veces es 409 INVALID_TRANSITION.
// POST /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	orderID := c.Params("id")
	var req dto.CancelOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	ord, lines, err := h.orderUseCase.Reverse(c.Context(), orderID, req.Reason, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(ord, lines))
}

// Get devuelve una orden con sus líneas.
// GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	orderID := c.Params("id")
	ord, lines, err := h.orderUseCase.Get(orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(ord, lines))
}

// ListMine lista las órdenes del vendedor/agente autenticado.
// GET /api/orders
func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	orders, err := h.orderUseCase.ListBySeller(userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, dto.ToOrderResponse(o, nil))
	}
	return c.JSON(resp)
}
