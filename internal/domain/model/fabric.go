package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// コンフィギュレーターで選ぶ生地
type Fabric struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Color     string          `gorm:"type:varchar(20);not null" json:"color"`
	Material  string          `gorm:"type:varchar(100)" json:"material"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL  string          `gorm:"type:varchar(500)" json:"image_url"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (f *Fabric) BeforeCreate(tx *gorm.DB) error {
	ensureID(&f.ID)
	return nil
}
