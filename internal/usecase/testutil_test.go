package usecase

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/sergey-royt/effective-mobile-test-task/internal/domain"
	"github.com/sergey-royt/effective-mobile-test-task/pkg/e"
)

// fakeTx подменяет pgx.Tx в транзакционных сценариях.
// Вызовы за пределами Commit/Rollback приводят к панике.
type fakeTx struct {
	pgx.Tx
	mu         sync.Mutex
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolledBack = true
	return nil
}

type fakeDB struct {
	tx       *fakeTx
	beginErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{tx: &fakeTx{}}
}

func (f *fakeDB) BeginTx(_ context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

// fakeProductRepo хранит товары в памяти и повторяет контракт Reserve:
// атомарная проверка и списание под мьютексом, остаток не уходит в минус
// ни при каком порядке конкурентных вызовов.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[int64]*domain.Product{}, nextID: 1}
}

func (f *fakeProductRepo) add(p *domain.Product) *domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(p)
}

func (f *fakeProductRepo) addLocked(p *domain.Product) *domain.Product {
	cp := *p
	cp.ID = f.nextID
	f.nextID++
	f.products[cp.ID] = &cp
	return &cp
}

func (f *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.Name == product.Name {
			return nil, e.ErrProductNameTaken
		}
	}
	return f.addLocked(product), nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context, offset, limit int64) ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []domain.Product
	for id := int64(1); id < f.nextID && int64(len(list)) < offset+limit; id++ {
		if p, ok := f.products[id]; ok {
			list = append(list, *p)
		}
	}
	if offset >= int64(len(list)) {
		return nil, nil
	}
	return list[offset:], nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return nil, e.ErrProductNotFound
	}
	cp := *product
	f.products[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return e.ErrProductNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) GetQuantity(_ context.Context, id int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return 0, e.ErrProductNotFound
	}
	return p.StockQuantity, nil
}

func (f *fakeProductRepo) Reserve(_ context.Context, id, quantity int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return e.ErrProductNotFound
	}
	if p.StockQuantity < quantity {
		return e.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[int64]*domain.Order
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.Order{}, nextID: 1}
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *order
	cp.ID = f.nextID
	f.nextID++
	cp.Items = make([]domain.OrderItem, len(order.Items))
	copy(cp.Items, order.Items)
	for i := range cp.Items {
		cp.Items[i].ID = int64(i + 1)
		cp.Items[i].OrderID = cp.ID
	}
	f.orders[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) List(_ context.Context, offset, limit int64) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []domain.Order
	for id := int64(1); id < f.nextID; id++ {
		if o, ok := f.orders[id]; ok {
			list = append(list, *o)
		}
	}
	if offset >= int64(len(list)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(list)) {
		end = int64(len(list))
	}
	return list[offset:end], nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, e.ErrOrderNotFound
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *event
	cp.ID = int64(len(f.events) + 1)
	f.events = append(f.events, &cp)
	return &cp, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var batch []*OutboxEvent
	for _, ev := range f.events {
		if ev.Status == Pending && len(batch) < limit {
			ev.Status = Processing
			batch = append(batch, ev)
		}
	}
	return batch, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.ID == id {
			ev.Status = Processed
			return nil
		}
	}
	return e.ErrOrderNotFound
}

type fakeCacheRepo struct {
	mu      sync.Mutex
	store   map[int64]ProductInfo
	deleted []int64
	getErr  error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: map[int64]ProductInfo{}}
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []int64) (map[int64]ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	result := map[int64]ProductInfo{}
	for _, id := range ids {
		if info, ok := f.store[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []ProductInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, info := range products {
		f.store[info.ID] = info
	}
	return nil
}

func (f *fakeCacheRepo) DeleteProducts(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.store, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}
