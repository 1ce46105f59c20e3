package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"atelier/internal/domain/model"
	repo "atelier/internal/repository"

	"github.com/shopspring/decimal"
)

// コンフィギュレーター用の生地・デザインモデル
type CatalogUsecase struct {
	fabrics repo.FabricRepository
	models  repo.DesignModelRepository
}

func NewCatalogUsecase(fabrics repo.FabricRepository, models repo.DesignModelRepository) *CatalogUsecase {
	return &CatalogUsecase{fabrics: fabrics, models: models}
}

type FabricInput struct {
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Material string          `json:"material"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	IsActive bool            `json:"is_active"`
}

type DesignModelInput struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Side     string          `json:"side"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	IsActive bool            `json:"is_active"`
}

func (u *CatalogUsecase) ListFabrics(ctx context.Context, activeOnly bool) ([]model.Fabric, error) {
	list, err := u.fabrics.List(ctx, activeOnly)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CatalogUsecase) CreateFabric(ctx context.Context, in FabricInput) (model.Fabric, error) {
	if err := validateFabric(in); err != nil {
		return model.Fabric{}, err
	}
	f, err := u.fabrics.Create(ctx, model.Fabric{
		Name:     strings.TrimSpace(in.Name),
		Color:    strings.TrimSpace(in.Color),
		Material: in.Material,
		Price:    in.Price,
		ImageURL: in.ImageURL,
		IsActive: in.IsActive,
	})
	if err != nil {
		return model.Fabric{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return f, nil
}

func (u *CatalogUsecase) UpdateFabric(ctx context.Context, id string, in FabricInput) error {
	if err := validateFabric(in); err != nil {
		return err
	}
	err := u.fabrics.Update(ctx, model.Fabric{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Color:    strings.TrimSpace(in.Color),
		Material: in.Material,
		Price:    in.Price,
		ImageURL: in.ImageURL,
		IsActive: in.IsActive,
	})
	return catalogWriteError(err)
}

func (u *CatalogUsecase) DeleteFabric(ctx context.Context, id string) error {
	return catalogWriteError(u.fabrics.Delete(ctx, id))
}

func validateFabric(in FabricInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Color) == "" {
		return NewHTTPError(http.StatusBadRequest, "name and color required")
	}
	if in.Price.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	return nil
}

func (u *CatalogUsecase) ListModels(ctx context.Context, category, side string, activeOnly bool) ([]model.DesignModel, error) {
	category = strings.ToUpper(strings.TrimSpace(category))
	side = strings.ToUpper(strings.TrimSpace(side))
	if category != "" && !model.GarmentCategory(category).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if side != "" && !model.DesignSide(side).Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid side")
	}

	list, err := u.models.List(ctx, repo.DesignModelFilter{Category: category, Side: side, ActiveOnly: activeOnly})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return list, nil
}

func (u *CatalogUsecase) CreateModel(ctx context.Context, in DesignModelInput) (model.DesignModel, error) {
	m, err := toDesignModel(in)
	if err != nil {
		return model.DesignModel{}, err
	}
	created, err := u.models.Create(ctx, m)
	if err != nil {
		return model.DesignModel{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CatalogUsecase) UpdateModel(ctx context.Context, id string, in DesignModelInput) error {
	m, err := toDesignModel(in)
	if err != nil {
		return err
	}
	m.ID = id
	return catalogWriteError(u.models.Update(ctx, m))
}

func (u *CatalogUsecase) DeleteModel(ctx context.Context, id string) error {
	return catalogWriteError(u.models.Delete(ctx, id))
}

func toDesignModel(in DesignModelInput) (model.DesignModel, error) {
	category := model.GarmentCategory(strings.ToUpper(strings.TrimSpace(in.Category)))
	side := model.DesignSide(strings.ToUpper(strings.TrimSpace(in.Side)))
	if strings.TrimSpace(in.Name) == "" {
		return model.DesignModel{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if !category.Valid() {
		return model.DesignModel{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if !side.Valid() {
		return model.DesignModel{}, NewHTTPError(http.StatusBadRequest, "invalid side")
	}
	if in.Price.IsNegative() {
		return model.DesignModel{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	return model.DesignModel{
		Name:     strings.TrimSpace(in.Name),
		Category: category,
		Side:     side,
		Price:    in.Price,
		ImageURL: in.ImageURL,
		IsActive: in.IsActive,
	}, nil
}

func catalogWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
