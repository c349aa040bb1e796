package allocation

import (
	"context"

	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. assign y returnToShop mueven cantidad entre
// dos registros (stock y asignación): ambos pasos viven en la misma tx.
type TxRunner interface {
	RunAllocation(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		allocRepo repository.AllocationRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
