package usecase_test

import (
	"context"
	"sync"
	"time"

	"atelier/internal/domain/event"
	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders       *OrderRepoMock
	orderItems   *OrderItemRepoMock
	customOrders *CustomOrderRepoMock
	addresses    *AddressRepoMock
	carts        *CartRepoMock
	cartItems    *CartItemRepoMock
	inventory    *InventoryRepoMock
	products     *ProductRepoMock
	fabrics      *FabricRepoMock
	designModels *DesignModelRepoMock
	auditLogs    *AuditRepoMock
}

func newTxRepos() *TxReposMock {
	return &TxReposMock{
		orders:       new(OrderRepoMock),
		orderItems:   new(OrderItemRepoMock),
		customOrders: new(CustomOrderRepoMock),
		addresses:    new(AddressRepoMock),
		carts:        new(CartRepoMock),
		cartItems:    new(CartItemRepoMock),
		inventory:    new(InventoryRepoMock),
		products:     new(ProductRepoMock),
		fabrics:      new(FabricRepoMock),
		designModels: new(DesignModelRepoMock),
		auditLogs:    new(AuditRepoMock),
	}
}

func (r *TxReposMock) Orders() repo.OrderRepository             { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *TxReposMock) CustomOrders() repo.CustomOrderRepository { return r.customOrders }
func (r *TxReposMock) Addresses() repo.AddressRepository        { return r.addresses }
func (r *TxReposMock) Carts() repo.CartRepository               { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *TxReposMock) Inventory() repo.InventoryRepository      { return r.inventory }
func (r *TxReposMock) Products() repo.ProductRepository         { return r.products }
func (r *TxReposMock) Fabrics() repo.FabricRepository           { return r.fabrics }
func (r *TxReposMock) DesignModels() repo.DesignModelRepository { return r.designModels }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository       { return r.auditLogs }

var _ repo.TxRepos = (*TxReposMock)(nil)

func newTx(r *TxReposMock) *TxManagerMock {
	tx := &TxManagerMock{Repos: r}
	tx.On("WithinTx", mock.Anything).Return()
	return tx
}

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindDetailByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserIDWithDetails(ctx context.Context, userID string) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Order)
	return list, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order *model.Order) error {
	args := m.Called(ctx, order)
	if args.Error(0) == nil && order.ID == "" {
		order.ID = "order-" + order.OrderNumber
	}
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) Create(ctx context.Context, item *model.OrderItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CustomOrderRepoMock struct{ mock.Mock }

func (m *CustomOrderRepoMock) Create(ctx context.Context, co *model.CustomOrder) error {
	return m.Called(ctx, co).Error(0)
}

func (m *CustomOrderRepoMock) FindByID(ctx context.Context, id string) (model.CustomOrder, error) {
	args := m.Called(ctx, id)
	co, _ := args.Get(0).(model.CustomOrder)
	return co, args.Error(1)
}

func (m *CustomOrderRepoMock) UpdateStatus(ctx context.Context, id string, status model.CustomOrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *CustomOrderRepoMock) ListWithUsers(ctx context.Context, f repo.CustomOrderListFilter) ([]model.CustomOrder, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.CustomOrder)
	return list, args.Error(1)
}

func (m *CustomOrderRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.CustomOrder, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.CustomOrder)
	return list, args.Error(1)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, a model.Address) (model.Address, error) {
	args := m.Called(ctx, a)
	out, _ := args.Get(0).(model.Address)
	return out, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]model.Address)
	return list, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID string) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, a model.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID string) error {
	return m.Called(ctx, addressID).Error(0)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID string) error {
	return m.Called(ctx, userID, addressID).Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindActiveByUserID(ctx context.Context, userID string) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) UpdateStatus(ctx context.Context, cartID string, status model.CartStatus) error {
	return m.Called(ctx, cartID, status).Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID string) error {
	return m.Called(ctx, cartID).Error(0)
}

func (m *CartRepoMock) ClearByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID string, productID string, addQty int64, unitPriceSnapshot decimal.Decimal) error {
	return m.Called(ctx, cartID, productID, addQty, unitPriceSnapshot).Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	return m.Called(ctx, cartItemID, qty).Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID string) error {
	return m.Called(ctx, cartItemID).Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID string) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID string, userID string) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID string, newStock int64) error {
	return m.Called(ctx, productID, newStock).Error(0)
}

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) IncreaseStock(ctx context.Context, productID string, qty int64) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.InventoryAdjustment) error {
	return m.Called(ctx, adj).Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	out, _ := args.Get(0).(model.Product)
	return out, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type FabricRepoMock struct{ mock.Mock }

func (m *FabricRepoMock) List(ctx context.Context, activeOnly bool) ([]model.Fabric, error) {
	args := m.Called(ctx, activeOnly)
	list, _ := args.Get(0).([]model.Fabric)
	return list, args.Error(1)
}

func (m *FabricRepoMock) FindByID(ctx context.Context, id string) (model.Fabric, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(model.Fabric)
	return f, args.Error(1)
}

func (m *FabricRepoMock) Create(ctx context.Context, f model.Fabric) (model.Fabric, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).(model.Fabric)
	return out, args.Error(1)
}

func (m *FabricRepoMock) Update(ctx context.Context, f model.Fabric) error {
	return m.Called(ctx, f).Error(0)
}

func (m *FabricRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type DesignModelRepoMock struct{ mock.Mock }

func (m *DesignModelRepoMock) List(ctx context.Context, f repo.DesignModelFilter) ([]model.DesignModel, error) {
	args := m.Called(ctx, f)
	list, _ := args.Get(0).([]model.DesignModel)
	return list, args.Error(1)
}

func (m *DesignModelRepoMock) FindByID(ctx context.Context, id string) (model.DesignModel, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(model.DesignModel)
	return d, args.Error(1)
}

func (m *DesignModelRepoMock) Create(ctx context.Context, d model.DesignModel) (model.DesignModel, error) {
	args := m.Called(ctx, d)
	out, _ := args.Get(0).(model.DesignModel)
	return out, args.Error(1)
}

func (m *DesignModelRepoMock) Update(ctx context.Context, d model.DesignModel) error {
	return m.Called(ctx, d).Error(0)
}

func (m *DesignModelRepoMock) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]model.AuditLog)
	return list, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var (
	_ repo.OrderRepository       = (*OrderRepoMock)(nil)
	_ repo.OrderItemRepository   = (*OrderItemRepoMock)(nil)
	_ repo.CustomOrderRepository = (*CustomOrderRepoMock)(nil)
	_ repo.AddressRepository     = (*AddressRepoMock)(nil)
	_ repo.CartRepository        = (*CartRepoMock)(nil)
	_ repo.CartItemRepository    = (*CartItemRepoMock)(nil)
	_ repo.InventoryRepository   = (*InventoryRepoMock)(nil)
	_ repo.ProductRepository     = (*ProductRepoMock)(nil)
	_ repo.FabricRepository      = (*FabricRepoMock)(nil)
	_ repo.DesignModelRepository = (*DesignModelRepoMock)(nil)
	_ repo.AuditLogRepository    = (*AuditRepoMock)(nil)
	_ repo.UserRepository        = (*UserRepoMock)(nil)
)

// =====================
// clock / publisher / logger
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// recordingPublisher は受け取ったイベントを貯める
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []event.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]event.Event(nil), p.events...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
