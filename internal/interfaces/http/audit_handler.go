package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/application/dto"
)

// AuditHandler expone el verificador de conservación de cantidad.
type AuditHandler struct {
	checkerUseCase *audit.CheckerUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(checkerUseCase *audit.CheckerUseCase) *AuditHandler {
	return &AuditHandler{checkerUseCase: checkerUseCase}
}

// Verify computa el balance de pools de un SKU:
// bodega + asignado + vendido contra el total jamás ingresado.
// GET /api/audit/stock/:productId
func (h *AuditHandler) Verify(c *fiber.Ctx) error {
	shopID := GetShopID(c)
	if shopID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token sin tienda"})
	}
	report, err := h.checkerUseCase.Verify(c.Context(), shopID, c.Params("productId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
