package entity

import "time"

// Shop representa una tienda del marketplace: dueña del stock central
// desde el cual se asigna mercancía a agentes y vendedores.
type Shop struct {
	ID        string
	OwnerID   string // UserID del dueño
	Name      string
	Address   string
	Phone     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
