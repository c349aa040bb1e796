package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una tienda.
func (r *StockRepo) Get(shopID, productID string) (*entity.Stock, error) {
	query := `
		SELECT shop_id, product_id, quantity, updated_at
		FROM stock WHERE shop_id = $1 AND product_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, shopID, productID).Scan(
		&s.ShopID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(shopID, productID string) (*entity.Stock, error) {
	query := `
		SELECT shop_id, product_id, quantity, updated_at
		FROM stock WHERE shop_id = $1 AND product_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, shopID, productID).Scan(
		&s.ShopID, &s.ProductID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por tienda y producto).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (shop_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (shop_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ShopID, stock.ProductID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// AdjustIf aplica delta de forma condicional contra el valor actual:
// el UPDATE solo procede si quantity + delta >= 0, así el decremento compite
// por la fila sin ventana entre leer y escribir. Cero filas afectadas con
// delta negativo = stock insuficiente (o SKU jamás stockeado, que es lo mismo).
// Un delta positivo sobre un SKU sin fila crea la fila (ON CONFLICT suma).
func (r *StockRepo) AdjustIf(shopID, productID string, delta decimal.Decimal) error {
	ctx := context.Background()
	if delta.GreaterThanOrEqual(decimal.Zero) {
		query := `
			INSERT INTO stock (shop_id, product_id, quantity, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (shop_id, product_id)
			DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()`
		if _, err := r.q.Exec(ctx, query, shopID, productID, delta); err != nil {
			return fmt.Errorf("adjust stock: %w", err)
		}
		return nil
	}

	query := `
		UPDATE stock SET quantity = quantity + $3, updated_at = now()
		WHERE shop_id = $1 AND product_id = $2 AND quantity + $3 >= 0`
	tag, err := r.q.Exec(ctx, query, shopID, productID, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
