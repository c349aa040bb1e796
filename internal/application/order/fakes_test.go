package order_test

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/mercado-stock/internal/domain"
	"github.com/tu-usuario/mercado-stock/internal/domain/entity"
	"github.com/tu-usuario/mercado-stock/internal/domain/repository"
)

// Fakes en memoria que emulan los adaptadores Postgres: guardan copias y el
// runner de transacciones hace rollback restaurando el estado si fn falla.

type memStockRepo struct {
	rows map[string]entity.Stock // key: shopID + "/" + productID
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{rows: make(map[string]entity.Stock)}
}

func stockKey(shopID, productID string) string { return shopID + "/" + productID }

func (m *memStockRepo) Get(shopID, productID string) (*entity.Stock, error) {
	s, ok := m.rows[stockKey(shopID, productID)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStockRepo) GetForUpdate(shopID, productID string) (*entity.Stock, error) {
	return m.Get(shopID, productID)
}

func (m *memStockRepo) Upsert(stock *entity.Stock) error {
	m.rows[stockKey(stock.ShopID, stock.ProductID)] = *stock
	return nil
}

func (m *memStockRepo) AdjustIf(shopID, productID string, delta decimal.Decimal) error {
	key := stockKey(shopID, productID)
	s := m.rows[key]
	next := s.Quantity.Add(delta)
	if next.IsNegative() {
		return domain.ErrInsufficientStock
	}
	s.ShopID, s.ProductID, s.Quantity = shopID, productID, next
	m.rows[key] = s
	return nil
}

type memAllocRepo struct {
	rows map[string]entity.Allocation
}

func newMemAllocRepo() *memAllocRepo {
	return &memAllocRepo{rows: make(map[string]entity.Allocation)}
}

func (m *memAllocRepo) GetByID(id string) (*entity.Allocation, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *memAllocRepo) GetByIDForUpdate(id string) (*entity.Allocation, error) {
	return m.GetByID(id)
}

func (m *memAllocRepo) GetActive(productID, intermediaryID string) (*entity.Allocation, error) {
	for _, a := range m.rows {
		if a.ProductID == productID && a.IntermediaryID == intermediaryID && a.Status == entity.AllocationStatusAssigned {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memAllocRepo) GetActiveForUpdate(productID, intermediaryID string) (*entity.Allocation, error) {
	return m.GetActive(productID, intermediaryID)
}

func (m *memAllocRepo) Create(a *entity.Allocation) error {
	if _, exists := m.rows[a.ID]; exists {
		return domain.ErrDuplicate
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAllocRepo) Update(a *entity.Allocation) error {
	if _, exists := m.rows[a.ID]; !exists {
		return domain.ErrAllocationNotFound
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAllocRepo) ListByIntermediary(intermediaryID string, limit, offset int) ([]*entity.Allocation, error) {
	var out []*entity.Allocation
	for _, a := range m.rows {
		if a.IntermediaryID == intermediaryID {
			found := a
			out = append(out, &found)
		}
	}
	return out, nil
}

func (m *memAllocRepo) SumRemaining(shopID, productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, a := range m.rows {
		if a.ShopID == shopID && a.ProductID == productID {
			sum = sum.Add(a.Remaining)
		}
	}
	return sum, nil
}

type memMovRepo struct {
	rows []entity.StockMovement
}

func newMemMovRepo() *memMovRepo { return &memMovRepo{} }

func (m *memMovRepo) Create(movement *entity.StockMovement) error {
	m.rows = append(m.rows, *movement)
	return nil
}

func (m *memMovRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := range m.rows {
		if m.rows[i].ProductID == productID {
			mv := m.rows[i]
			out = append(out, &mv)
		}
	}
	return out, nil
}

func (m *memMovRepo) SumIntake(shopID, productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, mv := range m.rows {
		if mv.ShopID == shopID && mv.ProductID == productID && mv.Type == entity.MovementTypeIntake {
			sum = sum.Add(mv.Quantity)
		}
	}
	return sum, nil
}

type memProductRepo struct {
	rows map[string]entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{rows: make(map[string]entity.Product)}
}

func (m *memProductRepo) Create(p *entity.Product) error {
	m.rows[p.ID] = *p
	return nil
}

func (m *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memProductRepo) ListByShop(shopID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.rows {
		if p.ShopID == shopID {
			found := p
			out = append(out, &found)
		}
	}
	return out, nil
}

type memUserRepo struct {
	rows map[string]entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{rows: make(map[string]entity.User)}
}

func (m *memUserRepo) Create(u *entity.User) error {
	m.rows[u.ID] = *u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmailAndShop(email, shopID string) (*entity.User, error) {
	for _, u := range m.rows {
		if u.Email == email && u.ShopID == shopID {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

type orderRecord struct {
	order entity.Order
	items []entity.OrderItem
}

type memOrderRepo struct {
	rows     map[string]orderRecord
	counters map[string]int64 // shopID -> último consecutivo emitido
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{rows: make(map[string]orderRecord), counters: make(map[string]int64)}
}

func (m *memOrderRepo) NextNumber(shopID string) (int64, error) {
	m.counters[shopID]++
	return m.counters[shopID], nil
}

func (m *memOrderRepo) Create(order *entity.Order, items []*entity.OrderItem) error {
	if _, exists := m.rows[order.ID]; exists {
		return domain.ErrDuplicate
	}
	rec := orderRecord{order: *order}
	for _, it := range items {
		rec.items = append(rec.items, *it)
	}
	m.rows[order.ID] = rec
	return nil
}

func (m *memOrderRepo) GetByID(id string) (*entity.Order, []*entity.OrderItem, error) {
	rec, ok := m.rows[id]
	if !ok {
		return nil, nil, nil
	}
	o := rec.order
	var items []*entity.OrderItem
	for i := range rec.items {
		it := rec.items[i]
		items = append(items, &it)
	}
	return &o, items, nil
}

func (m *memOrderRepo) GetByIDForUpdate(id string) (*entity.Order, []*entity.OrderItem, error) {
	return m.GetByID(id)
}

func (m *memOrderRepo) UpdateStatus(order *entity.Order) error {
	rec, ok := m.rows[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	rec.order = *order
	m.rows[order.ID] = rec
	return nil
}

func (m *memOrderRepo) ListBySeller(sellerID string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, rec := range m.rows {
		if rec.order.SellerID == sellerID {
			o := rec.order
			out = append(out, &o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) SumSold(shopID, productID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, rec := range m.rows {
		if rec.order.ShopID != shopID || rec.order.Status != entity.OrderStatusCompleted {
			continue
		}
		for _, it := range rec.items {
			if it.ProductID == productID {
				sum = sum.Add(it.Quantity)
			}
		}
	}
	return sum, nil
}

// fakeTxRunner emula la transacción de órdenes: clona el estado antes de
// ejecutar fn y lo restaura si fn falla.
type fakeTxRunner struct {
	orders *memOrderRepo
	stock  *memStockRepo
	alloc  *memAllocRepo
	mov    *memMovRepo
}

func (f *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	repository.OrderRepository,
	repository.StockRepository,
	repository.AllocationRepository,
	repository.StockMovementRepository,
) error) error {
	ordersSnap := make(map[string]orderRecord, len(f.orders.rows))
	for k, v := range f.orders.rows {
		rec := orderRecord{order: v.order, items: append([]entity.OrderItem(nil), v.items...)}
		ordersSnap[k] = rec
	}
	countersSnap := make(map[string]int64, len(f.orders.counters))
	for k, v := range f.orders.counters {
		countersSnap[k] = v
	}
	stockSnap := make(map[string]entity.Stock, len(f.stock.rows))
	for k, v := range f.stock.rows {
		stockSnap[k] = v
	}
	allocSnap := make(map[string]entity.Allocation, len(f.alloc.rows))
	for k, v := range f.alloc.rows {
		allocSnap[k] = v
	}
	movSnap := append([]entity.StockMovement(nil), f.mov.rows...)

	if err := fn(f.orders, f.stock, f.alloc, f.mov); err != nil {
		f.orders.rows = ordersSnap
		f.orders.counters = countersSnap
		f.stock.rows = stockSnap
		f.alloc.rows = allocSnap
		f.mov.rows = movSnap
		return err
	}
	return nil
}

var errTxConflict = errors.New("conflicto de serialización simulado")

// retryTxRunner emula lo que hace el runner real ante SQLSTATE 40001: el
// intento se descarta con rollback y el callback vuelve a ejecutarse desde
// cero sobre el estado original.
type retryTxRunner struct {
	inner     *fakeTxRunner
	conflicts int
}

func (r *retryTxRunner) RunOrder(ctx context.Context, fn func(
	repository.OrderRepository,
	repository.StockRepository,
	repository.AllocationRepository,
	repository.StockMovementRepository,
) error) error {
	for i := 0; i < r.conflicts; i++ {
		// El fallo al confirmar hace que inner restaure el estado previo
		_ = r.inner.RunOrder(ctx, func(
			o repository.OrderRepository,
			s repository.StockRepository,
			a repository.AllocationRepository,
			m repository.StockMovementRepository,
		) error {
			if err := fn(o, s, a, m); err != nil {
				return err
			}
			return errTxConflict
		})
	}
	return r.inner.RunOrder(ctx, fn)
}
