package repository

import (
	"context"

	"atelier/internal/domain/model"
)

// 配送先住所。所有者チェックはusecase側で行う
type AddressRepository interface {
	// IDを採番したaddressを返す
	Create(ctx context.Context, address model.Address) (model.Address, error)
	ListByUserID(ctx context.Context, userID string) ([]model.Address, error)
	FindByID(ctx context.Context, addressID string) (model.Address, error)
	Update(ctx context.Context, address model.Address) error
	Delete(ctx context.Context, addressID string) error
	SetDefault(ctx context.Context, userID, addressID string) error
}
