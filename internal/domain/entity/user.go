package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // personal de la tienda: maneja stock y asignaciones
	RoleAgente   = "agente"   // intermediario: vende mercancía asignada
	RoleVendedor = "vendedor" // vendedor directo: vende desde el stock de la tienda
)

// User representa un usuario del sistema (pertenece a una Shop).
type User struct {
	ID           string
	ShopID       string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, agente, vendedor
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
