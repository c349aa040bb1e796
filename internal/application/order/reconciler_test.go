package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/mercado-stock/internal/application/allocation"
	"github.com/tu-usuario/mercado-stock/internal/application/audit"
	"github.com/tu-usuario/mercado-stock/internal/application/order"
	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
)

const (
	shopID   = "shop-1"
	prodA    = "prod-a"
	prodB    = "prod-b"
	agentID  = "agent-1"
	sellerID = "seller-1"
	adminID  = "admin-1"
)

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// fixture arma el reconciliador con fakes: una tienda con dos productos,
// un vendedor de mostrador y un agente con asignación opcional.
type fixture struct {
	uc       *order.ReconcilerUseCase
	orders   *memOrderRepo
	stock    *memStockRepo
	allocs   *memAllocRepo
	movs     *memMovRepo
	products *memProductRepo
	users    *memUserRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	orders := newMemOrderRepo()
	stock := newMemStockRepo()
	allocs := newMemAllocRepo()
	movs := newMemMovRepo()
	products := newMemProductRepo()
	users := newMemUserRepo()

	require.NoError(t, products.Create(&entity.Product{
		ID: prodA, ShopID: shopID, Name: "Arroz", Price: decimal.NewFromInt(5),
		Unit: "kg", UnitSize: decimal.NewFromInt(1),
	}))
	require.NoError(t, products.Create(&entity.Product{
		ID: prodB, ShopID: shopID, Name: "Aceite", Price: decimal.NewFromInt(12),
		Unit: "l", UnitSize: decimal.NewFromInt(1),
	}))
	require.NoError(t, users.Create(&entity.User{
		ID: sellerID, ShopID: shopID, Email: "vendedor@tienda.co", Role: entity.RoleVendedor, Status: "active",
	}))
	require.NoError(t, users.Create(&entity.User{
		ID: agentID, ShopID: shopID, Email: "agente@tienda.co", Role: entity.RoleAgente, Status: "active",
	}))

	runner := &fakeTxRunner{orders: orders, stock: stock, alloc: allocs, mov: movs}
	allocUC := allocation.NewUseCase(nil, allocs, products, users)
	uc := order.NewReconcilerUseCase(runner, allocUC, orders, products, users)
	return &fixture{uc: uc, orders: orders, stock: stock, allocs: allocs, movs: movs, products: products, users: users}
}

func (f *fixture) seedStock(t *testing.T, productID string, quantity int64) {
	t.Helper()
	require.NoError(t, f.stock.AdjustIf(shopID, productID, qty(quantity)))
}

// seedAllocation deja una asignación activa del agente (como si la bodega ya
// le hubiera entregado mercancía).
func (f *fixture) seedAllocation(t *testing.T, productID string, quantity int64) string {
	t.Helper()
	id := "alloc-" + productID
	require.NoError(t, f.allocs.Create(&entity.Allocation{
		ID: id, ShopID: shopID, ProductID: productID, IntermediaryID: agentID,
		Assigned: qty(quantity), Remaining: qty(quantity),
		Status: entity.AllocationStatusAssigned, AssignedBy: adminID,
		AssignedAt: time.Now(),
	}))
	return id
}

func (f *fixture) onHand(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	s, err := f.stock.Get(shopID, productID)
	require.NoError(t, err)
	if s == nil {
		return decimal.Zero
	}
	return s.Quantity
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply — camino directo (vendedor)
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_VendedorDescuentaBodega(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	f.seedStock(t, prodB, 50)

	ord, lines, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{
			{ProductID: prodA, Quantity: qty(10)},
			{ProductID: prodB, Quantity: qty(2)},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCompleted, ord.Status)
	assert.EqualValues(t, 1, ord.Number)
	assert.NotNil(t, ord.CompletedAt)
	// 10*5 + 2*12 = 74 con el precio congelado del catálogo
	assert.True(t, ord.Total.Equal(qty(74)))

	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.False(t, line.ViaAllocation, "venta de mostrador no pasa por asignación")
		assert.Empty(t, line.AllocationID)
	}
	assert.True(t, f.onHand(t, prodA).Equal(qty(90)))
	assert.True(t, f.onHand(t, prodB).Equal(qty(48)))
}

func TestApply_PrecioExplicitoSeCongelaTalCual(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)

	ord, lines, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{
			{ProductID: prodA, Quantity: qty(4), UnitPrice: qty(7)}, // precio acordado, no el de catálogo
		},
	})
	require.NoError(t, err)
	assert.True(t, lines[0].Price.Equal(qty(7)))
	assert.True(t, ord.Total.Equal(qty(28)))
}

func TestApply_ConsecutivosMonotonicosPorTienda(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	ctx := context.Background()

	in := order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(1)}},
	}
	first, _, err := f.uc.Apply(ctx, in)
	require.NoError(t, err)
	second, _, err := f.uc.Apply(ctx, in)
	require.NoError(t, err)

	assert.EqualValues(t, 1, first.Number)
	assert.EqualValues(t, 2, second.Number)
}

func TestApply_StockInsuficienteAbortaLaOrdenEntera(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 10)
	f.seedStock(t, prodB, 1)

	// La primera línea cabe, la segunda no: nada debe quedar aplicado
	_, _, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{
			{ProductID: prodA, Quantity: qty(7)},
			{ProductID: prodB, Quantity: qty(2)},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.True(t, f.onHand(t, prodA).Equal(qty(10)), "la línea buena también debe revertirse")
	assert.True(t, f.onHand(t, prodB).Equal(qty(1)))
	assert.Empty(t, f.orders.rows, "no debe persistirse ninguna orden")
}

func TestApply_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: "no-existe", Quantity: qty(1)}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestApply_ReintentoPorConflictoNoDuplicaLineas(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)

	inner := &fakeTxRunner{orders: f.orders, stock: f.stock, alloc: f.allocs, mov: f.movs}
	allocUC := allocation.NewUseCase(nil, f.allocs, f.products, f.users)
	uc := order.NewReconcilerUseCase(&retryTxRunner{inner: inner, conflicts: 1}, allocUC, f.orders, f.products, f.users)

	ord, lines, err := uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(20)}},
	})
	require.NoError(t, err)

	require.Len(t, lines, 1, "el intento abortado no debe aportar líneas")
	assert.True(t, ord.Total.Equal(qty(100)), "el total se calcula sobre una sola línea")

	_, persisted, err := f.orders.GetByID(ord.ID)
	require.NoError(t, err)
	require.Len(t, persisted, 1)

	sold, err := f.orders.SumSold(shopID, prodA)
	require.NoError(t, err)
	assert.True(t, sold.Equal(qty(20)), "lo vendido se cuenta una sola vez")
	assert.True(t, f.onHand(t, prodA).Equal(qty(80)), "la bodega descuenta una sola vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply — camino vía asignación (agente)
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_AgenteConsumeSuAsignacion(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	allocID := f.seedAllocation(t, prodA, 20)

	ord, lines, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "card",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(8)}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCompleted, ord.Status)
	require.Len(t, lines, 1)
	assert.True(t, lines[0].ViaAllocation, "el camino queda grabado en la línea")
	assert.Equal(t, allocID, lines[0].AllocationID)

	assert.True(t, f.onHand(t, prodA).Equal(qty(100)), "la bodega no se toca en venta de agente")
	alloc, err := f.allocs.GetByID(allocID)
	require.NoError(t, err)
	assert.True(t, alloc.Remaining.Equal(qty(12)))
}

func TestApply_AgenteAgotaLaAsignacion(t *testing.T) {
	f := newFixture(t)
	allocID := f.seedAllocation(t, prodA, 8)

	_, _, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(8)}},
	})
	require.NoError(t, err)

	alloc, err := f.allocs.GetByID(allocID)
	require.NoError(t, err)
	assert.True(t, alloc.Remaining.IsZero())
	assert.Equal(t, entity.AllocationStatusSold, alloc.Status)
	assert.NotNil(t, alloc.SoldAt)
}

func TestApply_AgenteSinAsignacionActiva(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	// Hay stock de sobra en bodega, pero el agente vende de SU asignación:
	// sin asignación activa la venta se rechaza.
	_, _, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(1)}},
	})
	assert.True(t, errors.Is(err, domain.ErrAllocationNotFound))
	assert.True(t, f.onHand(t, prodA).Equal(qty(100)))
}

func TestApply_AgenteExcedeRemaining_NadaAMedias(t *testing.T) {
	f := newFixture(t)
	allocID := f.seedAllocation(t, prodA, 5)
	f.seedAllocation(t, prodB, 10)

	_, _, err := f.uc.Apply(context.Background(), order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "cash",
		Items: []order.LineInput{
			{ProductID: prodB, Quantity: qty(3)}, // esta línea cabe
			{ProductID: prodA, Quantity: qty(6)}, // esta no
		},
	})
	assert.True(t, errors.Is(err, domain.ErrInsufficientAllocation))

	allocA, _ := f.allocs.GetByID(allocID)
	allocB, _ := f.allocs.GetByID("alloc-" + prodB)
	assert.True(t, allocA.Remaining.Equal(qty(5)))
	assert.True(t, allocB.Remaining.Equal(qty(10)), "la línea buena también se revierte")
	assert.Empty(t, f.orders.rows)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reverse
// ──────────────────────────────────────────────────────────────────────────────

func TestReverse_VentaDirectaAcreditaBodega(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	ctx := context.Background()

	ord, _, err := f.uc.Apply(ctx, order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(10)}},
	})
	require.NoError(t, err)
	require.True(t, f.onHand(t, prodA).Equal(qty(90)))

	cancelled, _, err := f.uc.Reverse(ctx, ord.ID, "cliente se arrepintió", adminID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, "cliente se arrepintió", cancelled.CancellationReason)
	assert.True(t, f.onHand(t, prodA).Equal(qty(100)), "la cantidad vuelve a bodega")
}

func TestReverse_VentaDeAgenteReabreLaAsignacion(t *testing.T) {
	f := newFixture(t)
	allocID := f.seedAllocation(t, prodA, 8)
	ctx := context.Background()

	ord, _, err := f.uc.Apply(ctx, order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(8)}},
	})
	require.NoError(t, err)

	// La asignación quedó sold; revertir debe reabrirla, no tocar la bodega
	_, _, err = f.uc.Reverse(ctx, ord.ID, "devolución", adminID)
	require.NoError(t, err)

	alloc, err := f.allocs.GetByID(allocID)
	require.NoError(t, err)
	assert.True(t, alloc.Remaining.Equal(qty(8)))
	assert.Equal(t, entity.AllocationStatusAssigned, alloc.Status)
	assert.Nil(t, alloc.SoldAt)
	assert.True(t, f.onHand(t, prodA).IsZero(), "la bodega no participa del camino de agente")
}

func TestReverse_DosVecesEsTransicionInvalida(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, prodA, 100)
	ctx := context.Background()

	ord, _, err := f.uc.Apply(ctx, order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(10)}},
	})
	require.NoError(t, err)

	_, _, err = f.uc.Reverse(ctx, ord.ID, "primera", adminID)
	require.NoError(t, err)
	require.True(t, f.onHand(t, prodA).Equal(qty(100)))

	_, _, err = f.uc.Reverse(ctx, ord.ID, "segunda", adminID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.True(t, f.onHand(t, prodA).Equal(qty(100)), "la segunda cancelación no debe reponer otra vez")
}

func TestReverse_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.Reverse(context.Background(), "no-existe", "x", adminID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación de cantidad punta a punta
// ──────────────────────────────────────────────────────────────────────────────

// El total jamás ingresado debe conservarse tras cualquier secuencia de
// asignaciones, ventas por ambos caminos y cancelaciones:
//
//	bodega + Σ remaining + vendidoFinalizado == Σ INTAKE
func TestConservacion_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	checker := audit.NewCheckerUseCase(f.stock, f.allocs, f.orders, f.movs)

	// Ingreso de 100 unidades con su movimiento INTAKE
	require.NoError(t, f.stock.AdjustIf(shopID, prodA, qty(100)))
	require.NoError(t, f.movs.Create(&entity.StockMovement{
		ID: "mov-intake", ShopID: shopID, ProductID: prodA,
		Type: entity.MovementTypeIntake, Quantity: qty(100), CreatedAt: time.Now(), CreatedBy: adminID,
	}))

	// La tienda entrega 30 al agente
	require.NoError(t, f.stock.AdjustIf(shopID, prodA, qty(-30)))
	f.seedAllocation(t, prodA, 30)

	// Venta del agente (10) y venta de mostrador (20)
	agentOrder, _, err := f.uc.Apply(ctx, order.ApplyInput{
		ShopID: shopID, SellerID: agentID, PaymentMethod: "cash",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(10)}},
	})
	require.NoError(t, err)
	_, _, err = f.uc.Apply(ctx, order.ApplyInput{
		ShopID: shopID, SellerID: sellerID, PaymentMethod: "card",
		Items: []order.LineInput{{ProductID: prodA, Quantity: qty(20)}},
	})
	require.NoError(t, err)

	report, err := checker.Verify(ctx, shopID, prodA)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "tras las ventas: delta %s", report.Delta)
	assert.True(t, report.OnHand.Equal(qty(50)))
	assert.True(t, report.Allocated.Equal(qty(20)))
	assert.True(t, report.Sold.Equal(qty(30)))
	assert.True(t, report.TotalStocked.Equal(qty(100)))

	// Cancelar la venta del agente: la cantidad vuelve al pool asignado
	_, _, err = f.uc.Reverse(ctx, agentOrder.ID, "ajuste", adminID)
	require.NoError(t, err)

	report, err = checker.Verify(ctx, shopID, prodA)
	require.NoError(t, err)
	assert.True(t, report.Consistent, "tras la cancelación: delta %s", report.Delta)
	assert.True(t, report.Allocated.Equal(qty(30)))
	assert.True(t, report.Sold.Equal(qty(20)))
}
