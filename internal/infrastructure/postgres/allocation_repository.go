package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL
// (usable con pool o tx). Un índice único parcial sobre
// (product_id, intermediary_id) WHERE status = 'assigned' garantiza a lo sumo
// una asignación activa por par.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, shop_id, product_id, intermediary_id, assigned, remaining, status, assigned_by, assigned_at, sold_at, returned_at, updated_at`

func scanAllocation(row pgx.Row) (*entity.Allocation, error) {
	var a entity.Allocation
	err := row.Scan(
		&a.ID, &a.ShopID, &a.ProductID, &a.IntermediaryID,
		&a.Assigned, &a.Remaining, &a.Status, &a.AssignedBy,
		&a.AssignedAt, &a.SoldAt, &a.ReturnedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan allocation: %w", err)
	}
	return &a, nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1`
	return scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// GetByIDForUpdate obtiene una asignación por ID y bloquea la fila (SELECT FOR UPDATE).
func (r *AllocationRepo) GetByIDForUpdate(id string) (*entity.Allocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM allocations WHERE id = $1 FOR UPDATE`
	return scanAllocation(r.q.QueryRow(context.Background(), query, id))
}

// GetActive devuelve la asignación assigned del par (producto, intermediario), o nil.
func (r *AllocationRepo) GetActive(productID, intermediaryID string) (*entity.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + ` FROM allocations
		WHERE product_id = $1 AND intermediary_id = $2 AND status = $3`
	return scanAllocation(r.q.QueryRow(context.Background(), query, productID, intermediaryID, entity.AllocationStatusAssigned))
}

// GetActiveForUpdate igual que GetActive pero bloqueando la fila.
func (r *AllocationRepo) GetActiveForUpdate(productID, intermediaryID string) (*entity.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + ` FROM allocations
		WHERE product_id = $1 AND intermediary_id = $2 AND status = $3
		FOR UPDATE`
	return scanAllocation(r.q.QueryRow(context.Background(), query, productID, intermediaryID, entity.AllocationStatusAssigned))
}

// Create persiste una asignación nueva.
func (r *AllocationRepo) Create(a *entity.Allocation) error {
	query := `
		INSERT INTO allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.ShopID, a.ProductID, a.IntermediaryID,
		a.Assigned, a.Remaining, a.Status, a.AssignedBy,
		a.AssignedAt, a.SoldAt, a.ReturnedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create allocation: ya existe asignación activa del par: %w", err)
		}
		return fmt.Errorf("create allocation: %w", err)
	}
	return nil
}

// Update persiste cantidades, status y timestamps de una asignación.
func (r *AllocationRepo) Update(a *entity.Allocation) error {
	query := `
		UPDATE allocations
		SET assigned = $2, remaining = $3, status = $4, sold_at = $5, returned_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.Assigned, a.Remaining, a.Status, a.SoldAt, a.ReturnedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update allocation %s: fila no encontrada", a.ID)
	}
	return nil
}

// ListByIntermediary lista asignaciones de un intermediario, recientes primero.
func (r *AllocationRepo) ListByIntermediary(intermediaryID string, limit, offset int) ([]*entity.Allocation, error) {
	query := `
		SELECT ` + allocationColumns + ` FROM allocations
		WHERE intermediary_id = $1
		ORDER BY assigned_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, intermediaryID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// SumRemaining suma remaining de todas las asignaciones de un SKU (cualquier status).
func (r *AllocationRepo) SumRemaining(shopID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(remaining), 0) FROM allocations
		WHERE shop_id = $1 AND product_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, shopID, productID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return sum, nil
}
