package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/allocation"
	"github.com/tu-usuario/mercado-stock/internal/application/dto"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

// AllocationHandler expone las asignaciones tienda → intermediario.
type AllocationHandler struct {
	allocUseCase *allocation.UseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(allocUseCase *allocation.UseCase) *AllocationHandler {
	return &AllocationHandler{allocUseCase: allocUseCase}
}

// Assign entrega mercancía de la bodega a un agente.
// POST /api/allocations
func (h *AllocationHandler) Assign(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	userID := GetUserID(c)
	if shopID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	alloc, err := h.allocUseCase.Assign(c.Context(), allocation.AssignInput{
		ShopID:         shopID,
		ProductID:      req.ProductID,
		IntermediaryID: req.IntermediaryID,
		Quantity:       req.Quantity,
		AssignedBy:     userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAllocationResponse(alloc))
}

// Return devuelve mercancía de una asignación a la bodega.
// POST /api/allocations/:id/return
func (h *AllocationHandler) Return(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	allocationID := c.Params("id")
	var req dto.ReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	alloc, err := h.allocUseCase.ReturnToShop(c.Context(), allocationID, req.Quantity, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAllocationResponse(alloc))
}

// ListMine lista las asignaciones del intermediario autenticado.
// GET /api/allocations
func (h *AllocationHandler) ListMine(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	// El admin puede consultar las de otro intermediario vía ?intermediary_id=
	intermediaryID := userID
	if q := c.Query("intermediary_id"); q != "" && GetRole(c) == entity.RoleAdmin {
		intermediaryID = q
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query inválido"})
	}
	page.DefaultPage()
	allocs, err := h.allocUseCase.ListByIntermediary(intermediaryID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	resp := make([]*dto.AllocationResponse, 0, len(allocs))
	for _, a := range allocs {
		resp = append(resp, dto.ToAllocationResponse(a))
	}
	return c.JSON(resp)
}

// GetRemaining devuelve lo pendiente del intermediario autenticado para un producto.
// GET /api/allocations/remaining/:productId
func (h *AllocationHandler) GetRemaining(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	remaining, err := h.allocUseCase.GetRemaining(productID, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"product_id":      productID,
		"intermediary_id": userID,
		"remaining":       remaining,
	})
}
