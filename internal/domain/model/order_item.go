package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// カスタムデザイン明細を表す商品ID
const (
	ProductCustomBlouse       = "custom-blouse"
	ProductCustomSalwarKameez = "custom-salwar-kameez"
)

// IsCustomProductID は実在商品ではなくカスタム明細のIDかを返す。
func IsCustomProductID(id string) bool {
	return id == ProductCustomBlouse || id == ProductCustomSalwarKameez
}

// カスタム明細が使えるデザインモデルのカテゴリ
func CustomProductCategory(id string) (GarmentCategory, bool) {
	switch id {
	case ProductCustomBlouse:
		return CategoryBlouse, true
	case ProductCustomSalwarKameez:
		return CategorySalwarKameez, true
	}
	return "", false
}

// 注文明細。作成後は変更しない
type OrderItem struct {
	ID        string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"order_id"`
	ProductID string          `gorm:"type:varchar(64);not null;index" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Size      *string         `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color     *string         `gorm:"type:varchar(30)" json:"color,omitempty"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

func (i OrderItem) IsCustom() bool {
	return IsCustomProductID(i.ProductID)
}
