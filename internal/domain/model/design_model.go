package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// デザインの面（前 / 後ろ）
type DesignSide string

const (
	SideFront DesignSide = "FRONT"
	SideBack  DesignSide = "BACK"
)

func (s DesignSide) Valid() bool {
	return s == SideFront || s == SideBack
}

// 前後のデザインモデル。面ごとに価格を持つ
type DesignModel struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  GarmentCategory `gorm:"type:varchar(30);not null;index" json:"category"`
	Side      DesignSide      `gorm:"type:varchar(10);not null;index" json:"side"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImageURL  string          `gorm:"type:varchar(500)" json:"image_url"`
	IsActive  bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (m *DesignModel) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
