package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"atelier/internal/config"
	"atelier/internal/domain/model"
	"atelier/internal/infra/db"
	infraRepo "atelier/internal/infra/repository"
	repo "atelier/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// 実DB（postgres）が必要。DATABASE_URLが無ければスキップ
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL is not set")
	}
	gdb, err := db.Connect(config.Config{DBDriver: "postgres", DatabaseURL: url})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func suffix() string { return uuid.NewString()[:8] }

func seedUser(t *testing.T, gdb *gorm.DB) model.User {
	t.Helper()
	u := model.User{Email: "db-" + suffix() + "@example.com", Name: "Asha", PasswordHash: "x", Role: model.RoleUser, IsActive: true}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func seedProduct(t *testing.T, gdb *gorm.DB, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		Name:     "Silk Lehenga " + suffix(),
		Category: model.CategoryLehenga,
		Price:    decimal.RequireFromString("799"),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func newOrder(userID, number string) *model.Order {
	return &model.Order{
		OrderNumber:   number,
		UserID:        userID,
		Status:        model.OrderStatusPending,
		Subtotal:      decimal.RequireFromString("799"),
		Total:         decimal.RequireFromString("799"),
		PaymentMethod: model.PaymentMethodCOD,
		PaymentStatus: model.PaymentStatusPending,
	}
}

func stockOf(t *testing.T, gdb *gorm.DB, productID string) int64 {
	t.Helper()
	var p model.Product
	require.NoError(t, gdb.First(&p, "id = ?", productID).Error)
	return p.Stock
}

func TestDB_DecreaseStockIfEnough_StopsAtFloor(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	inv := infraRepo.NewInventoryGormRepository(gdb)
	p := seedProduct(t, gdb, 3)

	ok, err := inv.DecreaseStockIfEnough(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), stockOf(t, gdb, p.ID))

	// 在庫0からは減らせない
	ok, err = inv.DecreaseStockIfEnough(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), stockOf(t, gdb, p.ID))

	ok, err = inv.DecreaseStockIfEnough(ctx, "no-such-product", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDB_ClearByUserID_RemovesItemsOfEveryCart(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	carts := infraRepo.NewCartGormRepository(gdb)
	u := seedUser(t, gdb)
	other := seedUser(t, gdb)
	p := seedProduct(t, gdb, 10)

	active, err := carts.GetOrCreateActiveByUserID(ctx, u.ID)
	require.NoError(t, err)
	old := model.Cart{UserID: u.ID, Status: model.CartStatusCheckedOut}
	require.NoError(t, gdb.Create(&old).Error)
	otherCart, err := carts.GetOrCreateActiveByUserID(ctx, other.ID)
	require.NoError(t, err)

	for _, cartID := range []string{active.ID, old.ID, otherCart.ID} {
		require.NoError(t, carts.UpsertByCartAndProduct(ctx, cartID, p.ID, 2, p.Price))
	}

	n, err := carts.ClearByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := carts.ListByCartID(ctx, active.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	// 他人のカートは残る
	left, err = carts.ListByCartID(ctx, otherCart.ID)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestDB_OrderCreate_DuplicateNumberKeepsTxAlive(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb)

	taken := "ORD-" + suffix()
	require.NoError(t, infraRepo.NewOrderGormRepository(gdb).Create(ctx, newOrder(u.ID, taken)))

	fresh := "ORD-" + suffix()
	var created model.Order
	err := infraRepo.NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		err := r.Orders().Create(ctx, newOrder(u.ID, taken))
		if !errors.Is(err, repo.ErrDuplicate) {
			return err
		}
		// savepointまで戻っているので同じTxで採番し直せる
		o := newOrder(u.ID, fresh)
		if err := r.Orders().Create(ctx, o); err != nil {
			return err
		}
		created = *o
		return nil
	})
	require.NoError(t, err)

	var got model.Order
	require.NoError(t, gdb.First(&got, "id = ?", created.ID).Error)
	assert.Equal(t, fresh, got.OrderNumber)
}

func TestDB_WithinTx_LaterFailureRollsBackEverything(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	u := seedUser(t, gdb)
	plenty := seedProduct(t, gdb, 5)
	scarce := seedProduct(t, gdb, 1)
	number := "ORD-" + suffix()
	errOutOfStock := errors.New("out of stock")

	err := infraRepo.NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		o := newOrder(u.ID, number)
		if err := r.Orders().Create(ctx, o); err != nil {
			return err
		}
		for _, line := range []struct {
			productID string
			qty       int64
		}{{plenty.ID, 2}, {scarce.ID, 3}} {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, line.productID, line.qty)
			if err != nil {
				return err
			}
			if !ok {
				return errOutOfStock
			}
			if err := r.OrderItems().Create(ctx, &model.OrderItem{OrderID: o.ID, ProductID: line.productID, Quantity: line.qty, Price: plenty.Price}); err != nil {
				return err
			}
		}
		return nil
	})
	require.ErrorIs(t, err, errOutOfStock)

	// 先に減らした在庫も注文も残らない
	assert.Equal(t, int64(5), stockOf(t, gdb, plenty.ID))
	assert.Equal(t, int64(1), stockOf(t, gdb, scarce.ID))
	var n int64
	require.NoError(t, gdb.Model(&model.Order{}).Where("order_number = ?", number).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDB_OrderUpdateStatus_OnlyOneWinner(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	orders := infraRepo.NewOrderGormRepository(gdb)
	u := seedUser(t, gdb)
	o := newOrder(u.ID, "ORD-"+suffix())
	require.NoError(t, orders.Create(ctx, o))

	ok, err := orders.UpdateStatus(ctx, o.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.True(t, ok)

	// 古い状態を前提にした2回目は通らない
	ok, err = orders.UpdateStatus(ctx, o.ID, model.OrderStatusPending, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := orders.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, got.Status)
}
