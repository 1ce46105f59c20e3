package repository

import (
	"context"

	"atelier/internal/domain/model"
)

type FabricRepository interface {
	List(ctx context.Context, activeOnly bool) ([]model.Fabric, error)
	FindByID(ctx context.Context, id string) (model.Fabric, error)
	Create(ctx context.Context, f model.Fabric) (model.Fabric, error)
	Update(ctx context.Context, f model.Fabric) error
	Delete(ctx context.Context, id string) error
}

type DesignModelFilter struct {
	Category   string
	Side       string
	ActiveOnly bool
}

type DesignModelRepository interface {
	List(ctx context.Context, f DesignModelFilter) ([]model.DesignModel, error)
	FindByID(ctx context.Context, id string) (model.DesignModel, error)
	Create(ctx context.Context, m model.DesignModel) (model.DesignModel, error)
	Update(ctx context.Context, m model.DesignModel) error
	Delete(ctx context.Context, id string) error
}
