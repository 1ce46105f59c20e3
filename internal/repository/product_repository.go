package repository

import (
	"context"

	"atelier/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 公開商品の一覧条件。Page/Limitは呼び出し側で補正済み
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string // price_asc / price_desc / それ以外は新着順
}

type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, id string) error
}
