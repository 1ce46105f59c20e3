package repository

import (
	"context"
	"strings"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 公開中(is_active)かつ未削除の商品だけ
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_active = ?", true).
		Scopes(productFilters(q))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	products := []model.Product{}
	err := base.
		Scopes(productOrder(q.Sort)).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&products).Error
	if err != nil {
		return []model.Product{}, 0, err
	}
	return products, total, nil
}

// 名前の部分一致はLOWERでそろえる（postgres/mysql共通）
func productFilters(q repo.ProductListQuery) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(q.Q); s != "" {
			tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
		}
		if q.Category != "" {
			tx = tx.Where("category = ?", q.Category)
		}
		if q.MinPrice != nil {
			tx = tx.Where("price >= ?", *q.MinPrice)
		}
		if q.MaxPrice != nil {
			tx = tx.Where("price <= ?", *q.MaxPrice)
		}
		return tx
	}
}

func productOrder(sort string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch sort {
		case "price_asc":
			return tx.Order("price asc, id asc")
		case "price_desc":
			return tx.Order("price desc, id desc")
		default:
			return tx.Order("created_at desc, id desc")
		}
	}
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return p, translate(err)
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// ゼロ値(在庫0・非公開)も書き込むのでSelectで列を固定する
func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Select("name", "description", "category", "price", "stock", "image_url", "is_active").
		Updates(&p)
	return mustAffect(res)
}

// deleted_atを埋めるだけ。注文明細からは引き続き参照できる
func (r *ProductGormRepository) SoftDelete(ctx context.Context, id string) error {
	return mustAffect(r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{}))
}
