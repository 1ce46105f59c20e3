package repository

import (
	"context"
	"errors"

	"atelier/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepositoryとCartItemRepositoryの両方を満たす
type CartGormRepository struct {
	db *gorm.DB
}

func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func activeCartOf(userID string) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ? AND status = ?", userID, model.CartStatusActive).Order("created_at desc")
	}
}

// 行ロックを取ってから探すので、同時アクセスでもACTIVEが2つにならない
func (r *CartGormRepository) GetOrCreateActiveByUserID(ctx context.Context, userID string) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(activeCartOf(userID)).
			Attrs(model.Cart{UserID: userID, Status: model.CartStatusActive}).
			FirstOrCreate(&cart).Error
	})
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

func (r *CartGormRepository) FindActiveByUserID(ctx context.Context, userID string) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Scopes(activeCartOf(userID)).First(&cart).Error
	return cart, translate(err)
}

// 注文確定時にCHECKED_OUTへ
func (r *CartGormRepository) UpdateStatus(ctx context.Context, cartID string, status model.CartStatus) error {
	return mustAffect(r.db.WithContext(ctx).Model(&model.Cart{}).Where("id = ?", cartID).Update("status", status))
}

// カートが無ければErrNotFound
func (r *CartGormRepository) Clear(ctx context.Context, cartID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart model.Cart
		if err := tx.Select("id").First(&cart, "id = ?", cartID).Error; err != nil {
			return translate(err)
		}
		return tx.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
	})
}

// 注文後の後片付け。ACTIVE以外のカートの明細も消す
func (r *CartGormRepository) ClearByUserID(ctx context.Context, userID string) (int64, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&model.Cart{}).Select("id").Where("user_id = ?", userID)

	res := db.Where("cart_id IN (?)", owned).Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *CartGormRepository) ListByCartID(ctx context.Context, cartID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at asc").
		Find(&items).Error
	return items, err
}

// 同じ商品の明細があれば数量を足す。単価スナップショットは最初の追加時のまま
func (r *CartGormRepository) UpsertByCartAndProduct(ctx context.Context, cartID string, productID string, addQty int64, unitPriceSnapshot decimal.Decimal) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
		switch {
		case err == nil:
			return mustAffect(tx.Model(&item).Update("quantity", gorm.Expr("quantity + ?", addQty)))
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		return tx.Create(&model.CartItem{
			CartID:            cartID,
			ProductID:         productID,
			Quantity:          addQty,
			UnitPriceSnapshot: unitPriceSnapshot,
		}).Error
	})
}

func (r *CartGormRepository) UpdateQuantity(ctx context.Context, cartItemID string, qty int64) error {
	return mustAffect(r.db.WithContext(ctx).Model(&model.CartItem{}).Where("id = ?", cartItemID).Update("quantity", qty))
}

func (r *CartGormRepository) DeleteByID(ctx context.Context, cartItemID string) error {
	return mustAffect(r.db.WithContext(ctx).Where("id = ?", cartItemID).Delete(&model.CartItem{}))
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartItemID string) (model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", cartItemID).Error
	return item, translate(err)
}

func (r *CartGormRepository) IsOwnedByUser(ctx context.Context, cartItemID string, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", cartItemID, userID).
		Count(&n).Error
	return n > 0, err
}
