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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// NextNumber emite el siguiente consecutivo de la tienda desde la fila
// contadora order_counters. El UPDATE con RETURNING linealiza las emisiones
// concurrentes; si la tienda aún no tiene contador, lo crea en 1.
func (r *OrderRepo) NextNumber(shopID string) (int64, error) {
	ctx := context.Background()
	query := `
		INSERT INTO order_counters (shop_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (shop_id)
		DO UPDATE SET last_number = order_counters.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, shopID).Scan(&n); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return n, nil
}

// Create persiste cabecera y líneas de una orden.
func (r *OrderRepo) Create(order *entity.Order, items []*entity.OrderItem) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (id, number, shop_id, seller_id, status, payment_method, total,
			completed_at, cancelled_at, cancellation_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.Number, order.ShopID, order.SellerID, order.Status,
		order.PaymentMethod, order.Total, order.CompletedAt, order.CancelledAt,
		order.CancellationReason, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, unit, unit_size, via_allocation, allocation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, it := range items {
		allocationID := (*string)(nil)
		if it.AllocationID != "" {
			allocationID = &it.AllocationID
		}
		if _, err := r.q.Exec(ctx, itemQuery,
			it.ID, it.OrderID, it.ProductID, it.Quantity, it.Price,
			it.Unit, it.UnitSize, it.ViaAllocation, allocationID,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

const orderColumns = `id, number, shop_id, seller_id, status, payment_method, total, completed_at, cancelled_at, cancellation_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var reason *string
	err := row.Scan(
		&o.ID, &o.Number, &o.ShopID, &o.SellerID, &o.Status, &o.PaymentMethod,
		&o.Total, &o.CompletedAt, &o.CancelledAt, &reason, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if reason != nil {
		o.CancellationReason = *reason
	}
	return &o, nil
}

func (r *OrderRepo) getByID(id string, forUpdate bool) (*entity.Order, []*entity.OrderItem, error) {
	ctx := context.Background()
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil || o == nil {
		return nil, nil, err
	}

	itemQuery := `
		SELECT id, order_id, product_id, quantity, price, unit, unit_size, via_allocation, allocation_id
		FROM order_items WHERE order_id = $1`
	rows, err := r.q.Query(ctx, itemQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		var allocationID *string
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price,
			&it.Unit, &it.UnitSize, &it.ViaAllocation, &allocationID); err != nil {
			return nil, nil, fmt.Errorf("scan order item: %w", err)
		}
		if allocationID != nil {
			it.AllocationID = *allocationID
		}
		items = append(items, &it)
	}
	return o, items, rows.Err()
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, []*entity.OrderItem, error) {
	return r.getByID(id, false)
}

// GetByIDForUpdate obtiene una orden con sus líneas, bloqueando la cabecera.
// El lock impide que dos cancelaciones concurrentes pasen ambas el chequeo de status.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, []*entity.OrderItem, error) {
	return r.getByID(id, true)
}

// UpdateStatus persiste status, timestamps y razón de cancelación.
func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, completed_at = $3, cancelled_at = $4, cancellation_reason = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.CompletedAt, order.CancelledAt,
		order.CancellationReason, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: fila no encontrada", order.ID)
	}
	return nil
}

// ListBySeller lista órdenes de un vendedor/agente, recientes primero.
func (r *OrderRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE seller_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, sellerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// SumSold suma cantidades de líneas de órdenes completed (no cancelled) de un SKU.
func (r *OrderRepo) SumSold(shopID, productID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(oi.quantity), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.shop_id = $1 AND oi.product_id = $2 AND o.status = $3`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, shopID, productID, entity.OrderStatusCompleted).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sold: %w", err)
	}
	return sum, nil
}
