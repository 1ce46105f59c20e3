package repository

import (
	"context"

	"atelier/internal/domain/model"
)

type CustomOrderListFilter struct {
	Status string
	Limit  int
}

type CustomOrderRepository interface {
	Create(ctx context.Context, co *model.CustomOrder) error
	FindByID(ctx context.Context, id string) (model.CustomOrder, error)
	UpdateStatus(ctx context.Context, id string, status model.CustomOrderStatus) error
	// 所有ユーザー込みで新しい順
	ListWithUsers(ctx context.Context, f CustomOrderListFilter) ([]model.CustomOrder, error)
	ListByUserID(ctx context.Context, userID string) ([]model.CustomOrder, error)
}
