package repository

import (
	"context"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"gorm.io/gorm"
)

type addressGormRepository struct {
	db *gorm.DB
}

func NewAddressGormRepository(db *gorm.DB) repo.AddressRepository {
	return &addressGormRepository{db: db}
}

// 編集できる列。user_idとis_defaultは別経路でしか変えない
var addressEditable = []string{
	"first_name", "last_name", "email", "phone",
	"line1", "city", "state", "zip_code", "country",
}

func (r *addressGormRepository) Create(ctx context.Context, address model.Address) (model.Address, error) {
	if err := r.db.WithContext(ctx).Create(&address).Error; err != nil {
		return model.Address{}, translate(err)
	}
	return address, nil
}

// デフォルトが先頭、あとは登録順
func (r *addressGormRepository) ListByUserID(ctx context.Context, userID string) ([]model.Address, error) {
	list := []model.Address{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc, created_at asc").
		Find(&list).Error
	return list, err
}

func (r *addressGormRepository) FindByID(ctx context.Context, addressID string) (model.Address, error) {
	var a model.Address
	err := r.db.WithContext(ctx).First(&a, "id = ?", addressID).Error
	return a, translate(err)
}

func (r *addressGormRepository) Update(ctx context.Context, address model.Address) error {
	res := r.db.WithContext(ctx).
		Model(&model.Address{}).
		Where("id = ?", address.ID).
		Select(addressEditable).
		Updates(&address)
	return mustAffect(res)
}

func (r *addressGormRepository) Delete(ctx context.Context, addressID string) error {
	return mustAffect(r.db.WithContext(ctx).Where("id = ?", addressID).Delete(&model.Address{}))
}

// 1ユーザーにつきデフォルトは1件。所有していない住所ならErrNotFound
func (r *addressGormRepository) SetDefault(ctx context.Context, userID, addressID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target model.Address
		if err := tx.Select("id").First(&target, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			return translate(err)
		}
		return tx.Model(&model.Address{}).
			Where("user_id = ?", userID).
			UpdateColumn("is_default", gorm.Expr("id = ?", addressID)).Error
	})
}
