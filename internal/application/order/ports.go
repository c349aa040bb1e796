package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Aplicar o revertir una orden toca orden,
// stock y/o asignaciones: todo en la misma tx (rollback ante cualquier línea
// fallida).
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// AllocationMutator es el contrato mínimo que el reconciliador necesita del
// registro de asignaciones (lo implementa *allocation.UseCase; la interfaz
// evita el import circular).
type AllocationMutator interface {
	ConsumeInTx(allocRepo repository.AllocationRepository, productID, intermediaryID string, quantity decimal.Decimal, now time.Time) (*entity.Allocation, error)
	RestoreInTx(allocRepo repository.AllocationRepository, allocationID string, quantity decimal.Decimal, now time.Time) (*entity.Allocation, error)
}
