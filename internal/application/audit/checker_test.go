package audit_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

const (
	shopID    = "shop-1"
	productID = "prod-1"
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Stubs mínimos: el verificador solo lee cuatro agregados, así que cada stub
// devuelve la cifra fijada por el test.

type stubStock struct{ onHand decimal.Decimal }

func (s *stubStock) Get(shopID, productID string) (*entity.Stock, error) {
	if s.onHand.IsZero() {
		return nil, nil
	}
	return &entity.Stock{ShopID: shopID, ProductID: productID, Quantity: s.onHand}, nil
}
func (s *stubStock) GetForUpdate(shopID, productID string) (*entity.Stock, error) {
	return s.Get(shopID, productID)
}
func (s *stubStock) Upsert(*entity.Stock) error                     { return nil }
func (s *stubStock) AdjustIf(string, string, decimal.Decimal) error { return nil }

type stubAllocs struct{ remaining decimal.Decimal }

func (s *stubAllocs) GetByID(string) (*entity.Allocation, error)          { return nil, nil }
func (s *stubAllocs) GetByIDForUpdate(string) (*entity.Allocation, error) { return nil, nil }

func (s *stubAllocs) GetActive(string, string) (*entity.Allocation, error) {
	return nil, nil
}
func (s *stubAllocs) GetActiveForUpdate(string, string) (*entity.Allocation, error) {
	return nil, nil
}
func (s *stubAllocs) Create(*entity.Allocation) error { return nil }
func (s *stubAllocs) Update(*entity.Allocation) error { return nil }
func (s *stubAllocs) ListByIntermediary(string, int, int) ([]*entity.Allocation, error) {
	return nil, nil
}
func (s *stubAllocs) SumRemaining(string, string) (decimal.Decimal, error) {
	return s.remaining, nil
}

type stubOrders struct{ sold decimal.Decimal }

func (s *stubOrders) NextNumber(string) (int64, error) { return 0, nil }
func (s *stubOrders) Create(*entity.Order, []*entity.OrderItem) error {
	return nil
}
func (s *stubOrders) GetByID(string) (*entity.Order, []*entity.OrderItem, error) {
	return nil, nil, nil
}
func (s *stubOrders) GetByIDForUpdate(string) (*entity.Order, []*entity.OrderItem, error) {
	return nil, nil, nil
}
func (s *stubOrders) UpdateStatus(*entity.Order) error { return nil }
func (s *stubOrders) ListBySeller(string, int, int) ([]*entity.Order, error) {
	return nil, nil
}
func (s *stubOrders) SumSold(string, string) (decimal.Decimal, error) { return s.sold, nil }

type stubMovs struct{ intake decimal.Decimal }

func (s *stubMovs) Create(*entity.StockMovement) error { return nil }
func (s *stubMovs) ListByProduct(string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (s *stubMovs) SumIntake(string, string) (decimal.Decimal, error) { return s.intake, nil }

func newChecker(onHand, remaining, sold, intake int64) *audit.CheckerUseCase {
	return audit.NewCheckerUseCase(
		&stubStock{onHand: qty(onHand)},
		&stubAllocs{remaining: qty(remaining)},
		&stubOrders{sold: qty(sold)},
		&stubMovs{intake: qty(intake)},
	)
}

func TestVerify_PoolsBalanceados(t *testing.T) {
	checker := newChecker(50, 20, 30, 100)

	report, err := checker.Verify(context.Background(), shopID, productID)
	require.NoError(t, err)

	assert.True(t, report.Consistent)
	assert.True(t, report.Delta.IsZero())
	assert.True(t, report.OnHand.Equal(qty(50)))
	assert.True(t, report.Allocated.Equal(qty(20)))
	assert.True(t, report.Sold.Equal(qty(30)))
	assert.True(t, report.TotalStocked.Equal(qty(100)))
}

func TestVerify_CantidadPerdida(t *testing.T) {
	// Ingresaron 100 pero los pools solo suman 95: delta -5
	checker := newChecker(45, 20, 30, 100)

	report, err := checker.Verify(context.Background(), shopID, productID)
	require.NoError(t, err)

	assert.False(t, report.Consistent)
	assert.True(t, report.Delta.Equal(qty(-5)))
}

func TestVerify_CantidadAparecida(t *testing.T) {
	checker := newChecker(60, 20, 30, 100)

	report, err := checker.Verify(context.Background(), shopID, productID)
	require.NoError(t, err)

	assert.False(t, report.Consistent)
	assert.True(t, report.Delta.Equal(qty(10)))
}

func TestVerify_SkuJamasStockeado(t *testing.T) {
	checker := newChecker(0, 0, 0, 0)

	report, err := checker.Verify(context.Background(), shopID, productID)
	require.NoError(t, err)

	assert.True(t, report.Consistent, "cero en todos los pools conserva trivialmente")
}
