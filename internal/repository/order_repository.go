package repository

import (
	"context"
	"time"

	"atelier/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *string
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	// 明細と住所を含めて1件取得
	FindDetailByID(ctx context.Context, orderID string) (model.Order, error)
	// 明細・住所・所有ユーザーを含めて全件（新しい順）
	ListByUserIDWithDetails(ctx context.Context, userID string) ([]model.Order, error)
	// 注文番号の重複はErrDuplicate。呼び出し側のトランザクションは壊さない
	Create(ctx context.Context, order *model.Order) error
	// statusがfromのときだけtoへ変える。他のリクエストが先に変えていればfalse
	UpdateStatus(ctx context.Context, orderID string, from, to model.OrderStatus) (bool, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, status model.PaymentStatus) error

	//管理者用の注文一覧（明細・ユーザー込み）
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}
