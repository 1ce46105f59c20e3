package repository

import (
	"context"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomOrderGormRepository struct {
	db *gorm.DB
}

func NewCustomOrderGormRepository(db *gorm.DB) *CustomOrderGormRepository {
	return &CustomOrderGormRepository{db: db}
}

func (r *CustomOrderGormRepository) Create(ctx context.Context, co *model.CustomOrder) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(co).Error)
}

func (r *CustomOrderGormRepository) FindByID(ctx context.Context, id string) (model.CustomOrder, error) {
	var co model.CustomOrder
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&co).Error; err != nil {
		return model.CustomOrder{}, translate(err)
	}
	return co, nil
}

func (r *CustomOrderGormRepository) UpdateStatus(ctx context.Context, id string, status model.CustomOrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.CustomOrder{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomOrderGormRepository) ListWithUsers(ctx context.Context, f repo.CustomOrderListFilter) ([]model.CustomOrder, error) {
	q := r.db.WithContext(ctx).Preload("User")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var list []model.CustomOrder
	if err := q.Order("created_at desc").Find(&list).Error; err != nil {
		return []model.CustomOrder{}, err
	}
	return list, nil
}

func (r *CustomOrderGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.CustomOrder, error) {
	var list []model.CustomOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return []model.CustomOrder{}, err
	}
	return list, nil
}
