package model

import (
	"time"

	"gorm.io/gorm"
)

//在庫調整の履歴

type InventoryAdjustment struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductID   string    `gorm:"type:varchar(36);not null;index" json:"product_id"`
	AdminUserID string    `gorm:"type:varchar(36);not null;index" json:"admin_user_id"`
	Delta       int64     `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (a *InventoryAdjustment) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
