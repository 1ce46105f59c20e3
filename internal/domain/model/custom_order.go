package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomOrderStatus string

const (
	CustomOrderStatusPending      CustomOrderStatus = "PENDING"
	CustomOrderStatusConfirmed    CustomOrderStatus = "CONFIRMED"
	CustomOrderStatusInProduction CustomOrderStatus = "IN_PRODUCTION"
	CustomOrderStatusReady        CustomOrderStatus = "READY"
	CustomOrderStatusDelivered    CustomOrderStatus = "DELIVERED"
	CustomOrderStatusCancelled    CustomOrderStatus = "CANCELLED"
)

// 入力が無いときに入れるプレースホルダー
const (
	DefaultFabricName      = "Custom Fabric"
	DefaultFabricColor     = "#000000"
	DefaultFrontDesignName = "Custom Front Design"
	DefaultBackDesignName  = "Custom Back Design"
)

// カスタムデザインの受注。
// OrderItemとは外部キーで結ばず、ユーザーと作成時刻で対応づく
type CustomOrder struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string            `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ProductType     string            `gorm:"type:varchar(64);not null" json:"product_type"`
	FabricName      string            `gorm:"type:varchar(255);not null" json:"fabric_name"`
	FabricColor     string            `gorm:"type:varchar(20);not null" json:"fabric_color"`
	FrontDesignName string            `gorm:"type:varchar(255);not null" json:"front_design_name"`
	BackDesignName  string            `gorm:"type:varchar(255);not null" json:"back_design_name"`
	FrontModelID    *string           `gorm:"type:varchar(36)" json:"front_model_id,omitempty"`
	BackModelID     *string           `gorm:"type:varchar(36)" json:"back_model_id,omitempty"`
	Measurements    datatypes.JSON    `gorm:"type:json" json:"measurements"`
	Price           decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"price"`
	FabricCost      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"fabric_cost"`
	FrontModelPrice decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"front_model_price"`
	BackModelPrice  decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"back_model_price"`
	OwnFabric       bool              `gorm:"not null;default:false" json:"own_fabric"`
	AppointmentDate *time.Time        `json:"appointment_date,omitempty"`
	AppointmentType *string           `gorm:"type:varchar(30)" json:"appointment_type,omitempty"`
	Status          CustomOrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt       time.Time         `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *CustomOrder) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
