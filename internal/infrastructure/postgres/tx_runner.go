package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tu-usuario/mercado-stock/internal/application/allocation"
	"github.com/tu-usuario/mercado-stock/internal/application/order"
	"github.com/tu-usuario/mercado-stock/internal/application/stock"
	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// Verificación en compilación de los puertos de transacción.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ allocation.TxRunner = (*TxRunner)(nil)
var _ order.TxRunner = (*TxRunner)(nil)

// maxTxRetries reintentos ante serialization_failure/deadlock antes de rendirse.
const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con
// reintento acotado ante conflictos de concurrencia (40001/40P01). Agotados
// los reintentos retorna domain.ErrConcurrentUpdate: transitorio, el caller
// puede volver a intentar.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// runInTx inicia una transacción, ejecuta fn y hace Commit o Rollback,
// reintentando cuando el motor aborta por conflicto.
func (r *TxRunner) runInTx(ctx context.Context, fn func(q Querier) error) error {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			_ = tx.Rollback(ctx)
			if isRetryableTxError(err) {
				lastErr = err
				continue
			}
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			if isRetryableTxError(err) {
				lastErr = err
				continue
			}
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrConcurrentUpdate, lastErr)
}

// Run implementa stock.TxRunner (mutaciones de stock + movimiento).
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.runInTx(ctx, func(q Querier) error {
		return fn(NewStockRepository(q), NewStockMovementRepository(q))
	})
}

// RunAllocation implementa allocation.TxRunner (assign y returnToShop:
// stock + asignación + movimiento en la misma tx).
func (r *TxRunner) RunAllocation(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	allocRepo repository.AllocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.runInTx(ctx, func(q Querier) error {
		return fn(NewStockRepository(q), NewAllocationRepository(q), NewStockMovementRepository(q))
	})
}

// RunOrder implementa order.TxRunner (aplicar/revertir órdenes: orden, stock,
// asignaciones y movimientos en la misma tx).
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	stockRepo repository.StockRepository,
	allocRepo repository.AllocationRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	return r.runInTx(ctx, func(q Querier) error {
		return fn(NewOrderRepository(q), NewStockRepository(q), NewAllocationRepository(q), NewStockMovementRepository(q))
	})
}
