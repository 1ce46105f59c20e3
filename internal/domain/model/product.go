package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品カテゴリ（BLOUSE / LEHENGA / SALWAR_KAMEEZ）
type GarmentCategory string

const (
	CategoryBlouse       GarmentCategory = "BLOUSE"
	CategoryLehenga      GarmentCategory = "LEHENGA"
	CategorySalwarKameez GarmentCategory = "SALWAR_KAMEEZ"
)

func (c GarmentCategory) Valid() bool {
	switch c {
	case CategoryBlouse, CategoryLehenga, CategorySalwarKameez:
		return true
	}
	return false
}

type Product struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    GarmentCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int64           `gorm:"not null" json:"stock"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url"`
	IsActive    bool            `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
