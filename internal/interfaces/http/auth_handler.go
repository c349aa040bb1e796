package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/mercado-stock/internal/application/auth"
	"github.com/tu-usuario/mercado-stock/internal/application/dto"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

// Register crea un usuario (admin, agente o vendedor) en una tienda.
// POST /api/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	if req.Email == "" || req.Password == "" || req.ShopID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "shop_id, email y password son requeridos"})
	}
	user, err := h.authUseCase.RegisterUser(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login autentica y devuelve un JWT con user_id, shop_id y role.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "body inválido"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	resp, err := h.authUseCase.Login(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
