package repository

import (
	"context"

	"atelier/internal/domain/model"
)

type CartRepository interface {
	GetOrCreateActiveByUserID(ctx context.Context, userID string) (model.Cart, error)
	FindActiveByUserID(ctx context.Context, userID string) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID string, status model.CartStatus) error
	Clear(ctx context.Context, cartID string) error
	// ユーザーの全カートの明細を削除し、削除件数を返す
	ClearByUserID(ctx context.Context, userID string) (int64, error)
}
