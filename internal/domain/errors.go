package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Errores del motor de stock/asignaciones.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInsufficientAllocation = errors.New("cantidad asignada insuficiente")
	ErrAllocationNotFound     = errors.New("asignación no encontrada")
	ErrInvalidTransition      = errors.New("transición de estado inválida")
	ErrConcurrentUpdate       = errors.New("conflicto de actualización concurrente")
)
