package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// カートの明細
// 追加時点の価格を必ず保存。
type CartItem struct {
	ID                string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	CartID            string          `gorm:"type:varchar(36);not null;index" json:"cart_id"`
	ProductID         string          `gorm:"type:varchar(36);not null;index" json:"product_id"`
	Quantity          int64           `gorm:"not null" json:"quantity"`
	Size              string          `gorm:"type:varchar(20)" json:"size,omitempty"`
	Color             string          `gorm:"type:varchar(30)" json:"color,omitempty"`
	UnitPriceSnapshot decimal.Decimal `gorm:"type:decimal(12,2);not null;column:unit_price_snapshot" json:"unit_price_snapshot"`
	CreatedAt         time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
