package repository

import (
	"context"

	"atelier/internal/domain/model"
)

// 既製品の在庫。カスタム注文は在庫を持たないので対象外
type InventoryRepository interface {
	// 管理画面からの棚卸し。商品が無ければErrNotFound
	SetStock(ctx context.Context, productID string, newStock int64) error
	// 注文確定時。足りなければfalse（エラーではない）
	DecreaseStockIfEnough(ctx context.Context, productID string, qty int64) (bool, error)
	// 注文キャンセル時の戻し
	IncreaseStock(ctx context.Context, productID string, qty int64) error
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
