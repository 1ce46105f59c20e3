package repository

import (
	"context"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"gorm.io/gorm"
)

type FabricGormRepository struct {
	db *gorm.DB
}

func NewFabricGormRepository(db *gorm.DB) *FabricGormRepository {
	return &FabricGormRepository{db: db}
}

func (r *FabricGormRepository) List(ctx context.Context, activeOnly bool) ([]model.Fabric, error) {
	q := r.db.WithContext(ctx).Model(&model.Fabric{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var list []model.Fabric
	if err := q.Order("name asc").Find(&list).Error; err != nil {
		return []model.Fabric{}, err
	}
	return list, nil
}

func (r *FabricGormRepository) FindByID(ctx context.Context, id string) (model.Fabric, error) {
	var f model.Fabric
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return model.Fabric{}, translate(err)
	}
	return f, nil
}

func (r *FabricGormRepository) Create(ctx context.Context, f model.Fabric) (model.Fabric, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return model.Fabric{}, translate(err)
	}
	return f, nil
}

func (r *FabricGormRepository) Update(ctx context.Context, f model.Fabric) error {
	res := r.db.WithContext(ctx).Model(&model.Fabric{}).Where("id = ?", f.ID).Updates(map[string]interface{}{
		"name":      f.Name,
		"color":     f.Color,
		"material":  f.Material,
		"price":     f.Price,
		"image_url": f.ImageURL,
		"is_active": f.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *FabricGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Fabric{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type DesignModelGormRepository struct {
	db *gorm.DB
}

func NewDesignModelGormRepository(db *gorm.DB) *DesignModelGormRepository {
	return &DesignModelGormRepository{db: db}
}

func (r *DesignModelGormRepository) List(ctx context.Context, f repo.DesignModelFilter) ([]model.DesignModel, error) {
	q := r.db.WithContext(ctx).Model(&model.DesignModel{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Side != "" {
		q = q.Where("side = ?", f.Side)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}

	var list []model.DesignModel
	if err := q.Order("side asc").Order("name asc").Find(&list).Error; err != nil {
		return []model.DesignModel{}, err
	}
	return list, nil
}

func (r *DesignModelGormRepository) FindByID(ctx context.Context, id string) (model.DesignModel, error) {
	var m model.DesignModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return model.DesignModel{}, translate(err)
	}
	return m, nil
}

func (r *DesignModelGormRepository) Create(ctx context.Context, m model.DesignModel) (model.DesignModel, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.DesignModel{}, translate(err)
	}
	return m, nil
}

func (r *DesignModelGormRepository) Update(ctx context.Context, m model.DesignModel) error {
	res := r.db.WithContext(ctx).Model(&model.DesignModel{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
		"name":      m.Name,
		"category":  m.Category,
		"side":      m.Side,
		"price":     m.Price,
		"image_url": m.ImageURL,
		"is_active": m.IsActive,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *DesignModelGormRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.DesignModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
